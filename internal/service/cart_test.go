package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/repo"
)

func cartFixture(t *testing.T) (*CartService, *repo.GormRepo) {
	t.Helper()

	db := initTestDB(t)
	r := &repo.GormRepo{DB: db}
	return &CartService{Repo: r}, r
}

func TestAddToCartMergesSameLine(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	id := userIdentity(1)

	p := seedProduct(t, r.DB, "Trackball", 70, 10)

	_, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(5), cart.Items[0].Quantity)
	assert.Equal(t, uint(5), cart.ItemCount())

	// The merged line survives a reload.
	fresh, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, uint(5), fresh.Items[0].Quantity)
}

func TestAddToCartVariantsAreDistinctLines(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	id := sessionIdentity("guest-1")

	p := seedProduct(t, r.DB, "T-Shirt", 20, 0)
	small := seedVariant(t, r.DB, p.ID, "S", 20, 10)
	large := seedVariant(t, r.DB, p.ID, "L", 22, 10)

	_, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: p.ID, VariantID: &small.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: p.ID, VariantID: &large.ID, Quantity: 1})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 1, cart.UniqueProductCount())
	assert.Equal(t, float64(42), cart.TotalAmount())
}

func TestAddToCartValidatesCatalog(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	id := userIdentity(2)

	p := seedProduct(t, r.DB, "Old Mouse", 10, 3)
	require.NoError(t, r.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	_, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: p.ID, Quantity: 1})
	require.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.AddToCart(ctx, id, AddToCartInput{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, models.ErrNotFound)

	active := seedProduct(t, r.DB, "New Mouse", 10, 3)
	_, err = svc.AddToCart(ctx, id, AddToCartInput{ProductID: active.ID, Quantity: 5})
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = svc.AddToCart(ctx, id, AddToCartInput{ProductID: active.ID, Quantity: 0})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateAndRemoveCartItems(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	id := userIdentity(3)

	pa := seedProduct(t, r.DB, "Pen", 2, 100)
	pb := seedProduct(t, r.DB, "Notebook", 5, 100)

	_, err := svc.AddToCart(ctx, id, AddToCartInput{ProductID: pa.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, id, AddToCartInput{ProductID: pb.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(ctx, id, pa.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, float64(25), cart.TotalAmount())

	cart, err = svc.RemoveItem(ctx, id, pa.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, pb.ID, cart.Items[0].ProductID)

	_, err = svc.RemoveItem(ctx, id, pa.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.ClearCart(ctx, id))
	fresh, err := svc.GetCart(ctx, id)
	require.NoError(t, err)
	assert.True(t, fresh.IsEmpty())
}

func TestGetCartUntouchedReadsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)

	cart, err := svc.GetCart(ctx, userIdentity(42))
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// Reads never create a row.
	var count int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMergeCartsConvertsGuestCart(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	guest := sessionIdentity("guest-7")

	p := seedProduct(t, r.DB, "Charger", 30, 10)
	_, err := svc.AddToCart(ctx, guest, AddToCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	merged, err := svc.MergeCarts(ctx, 7, "guest-7")
	require.NoError(t, err)

	require.NotNil(t, merged.UserID)
	assert.Equal(t, uint(7), *merged.UserID)
	assert.Nil(t, merged.SessionID)
	assert.Equal(t, uint(2), merged.ItemCount())

	// The guest session no longer resolves to a cart.
	_, err = r.GetCartBySessionID(ctx, "guest-7")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMergeCartsFoldsIntoExistingUserCart(t *testing.T) {
	ctx := context.Background()
	svc, r := cartFixture(t)
	guest := sessionIdentity("guest-8")
	user := userIdentity(8)

	pa := seedProduct(t, r.DB, "Cable", 5, 100)
	pb := seedProduct(t, r.DB, "Adapter", 12, 100)

	_, err := svc.AddToCart(ctx, user, AddToCartInput{ProductID: pa.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, guest, AddToCartInput{ProductID: pa.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, guest, AddToCartInput{ProductID: pb.ID, Quantity: 1})
	require.NoError(t, err)

	merged, err := svc.MergeCarts(ctx, 8, "guest-8")
	require.NoError(t, err)

	// Overlapping lines sum, distinct lines carry over, guest cart is gone.
	require.Len(t, merged.Items, 2)
	assert.Equal(t, uint(3), merged.ProductQuantity(pa.ID))
	assert.Equal(t, uint(1), merged.ProductQuantity(pb.ID))

	var count int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMergeCartsNoGuestCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := cartFixture(t)

	cart, err := svc.MergeCarts(ctx, 9, "never-seen")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
