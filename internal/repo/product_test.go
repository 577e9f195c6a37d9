package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
)

func initTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.ProductVariant{}))
	return &GormRepo{DB: db}
}

func TestDecrementProductStock(t *testing.T) {
	ctx := context.Background()
	r := initTestRepo(t)

	p := models.Product{Name: "PSU", Price: 80, Stock: 5, IsActive: true}
	require.NoError(t, r.DB.Create(&p).Error)

	require.NoError(t, r.DecrementProductStock(ctx, p.ID, 3))

	var fresh models.Product
	require.NoError(t, r.DB.First(&fresh, p.ID).Error)
	assert.Equal(t, uint(2), fresh.Stock)
	assert.Equal(t, uint(3), fresh.SoldCount)

	// The guard fails the write when stock dropped below the quantity,
	// and classifies it as the retryable conflict kind.
	err := r.DecrementProductStock(ctx, p.ID, 3)
	require.ErrorIs(t, err, models.ErrStockConflict)

	require.NoError(t, r.DB.First(&fresh, p.ID).Error)
	assert.Equal(t, uint(2), fresh.Stock)
	assert.Equal(t, uint(3), fresh.SoldCount)
}

func TestDecrementVariantStock(t *testing.T) {
	ctx := context.Background()
	r := initTestRepo(t)

	p := models.Product{Name: "Case", Price: 60, Stock: 0, IsActive: true}
	require.NoError(t, r.DB.Create(&p).Error)
	v := models.ProductVariant{ProductID: p.ID, Name: "White", Price: 65, Stock: 2, IsActive: true}
	require.NoError(t, r.DB.Create(&v).Error)

	require.NoError(t, r.DecrementVariantStock(ctx, v.ID, 2))
	require.ErrorIs(t, r.DecrementVariantStock(ctx, v.ID, 1), models.ErrStockConflict)

	var fresh models.ProductVariant
	require.NoError(t, r.DB.First(&fresh, v.ID).Error)
	assert.Equal(t, uint(0), fresh.Stock)
	assert.Equal(t, uint(2), fresh.SoldCount)
}

func TestIncrementStockRequiresExistingRow(t *testing.T) {
	ctx := context.Background()
	r := initTestRepo(t)

	p := models.Product{Name: "Fan", Price: 10, Stock: 1, IsActive: true}
	require.NoError(t, r.DB.Create(&p).Error)

	require.NoError(t, r.IncrementProductStock(ctx, p.ID, 4))

	var fresh models.Product
	require.NoError(t, r.DB.First(&fresh, p.ID).Error)
	assert.Equal(t, uint(5), fresh.Stock)

	require.ErrorIs(t, r.IncrementProductStock(ctx, 999, 1), models.ErrNotFound)
	require.ErrorIs(t, r.IncrementVariantStock(ctx, 999, 1), models.ErrNotFound)
}
