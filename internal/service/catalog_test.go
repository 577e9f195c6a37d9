package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/repo"
)

func catalogFixture(t *testing.T) (*CatalogService, *repo.GormRepo) {
	t.Helper()

	db := initTestDB(t)
	r := &repo.GormRepo{DB: db}
	return &CatalogService{Repo: r}, r
}

func TestCreateProductWithVariants(t *testing.T) {
	ctx := context.Background()
	svc, _ := catalogFixture(t)

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:  "Hoodie",
		Price: 35,
		Variants: []VariantInput{
			{Name: "M", Price: 35, Stock: 10},
			{Name: "XL", Price: 38, Stock: 5},
		},
	})
	require.NoError(t, err)

	assert.True(t, product.IsActive)
	require.Len(t, product.Variants, 2)
	assert.NotZero(t, product.Variants[0].ID)

	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, got.Variants, 2)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := catalogFixture(t)

	_, err := svc.CreateProduct(ctx, ProductInput{Price: 10})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Broken", Price: -1})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestPatchProduct(t *testing.T) {
	ctx := context.Background()
	svc, r := catalogFixture(t)

	p := seedProduct(t, r.DB, "Basic Tee", 15, 20)

	newPrice := 18.0
	newName := "Premium Tee"
	got, err := svc.PatchProduct(ctx, p.ID, ProductPatch{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Premium Tee", got.Name)
	assert.Equal(t, 18.0, got.Price)

	// Untouched fields survive the patch.
	assert.Equal(t, uint(20), got.Stock)

	bad := -5.0
	_, err = svc.PatchProduct(ctx, p.ID, ProductPatch{Price: &bad})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestDeactivateProductIsSoft(t *testing.T) {
	ctx := context.Background()
	svc, r := catalogFixture(t)

	p := seedProduct(t, r.DB, "Legacy Hub", 25, 5)
	require.NoError(t, svc.DeactivateProduct(ctx, p.ID))

	// The row stays around for order snapshots, just inactive.
	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	total, listed, err := svc.ListProducts(ctx, 0, 10, true)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, listed)
}

func TestRestock(t *testing.T) {
	ctx := context.Background()
	svc, r := catalogFixture(t)

	p := seedProduct(t, r.DB, "Cable", 5, 2)
	v := seedVariant(t, r.DB, p.ID, "2m", 7, 1)

	got, err := svc.Restock(ctx, p.ID, nil, 8)
	require.NoError(t, err)
	assert.Equal(t, uint(10), got.Stock)

	got, err = svc.Restock(ctx, p.ID, &v.ID, 4)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, uint(5), got.Variants[0].Stock)

	_, err = svc.Restock(ctx, p.ID, nil, 0)
	require.ErrorIs(t, err, models.ErrValidation)

	missing := uint(99)
	_, err = svc.Restock(ctx, p.ID, &missing, 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}
