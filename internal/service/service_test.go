package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock uint) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedVariant(t *testing.T, db *gorm.DB, productID uint, name string, price float64, stock uint) *models.ProductVariant {
	t.Helper()

	v := &models.ProductVariant{ProductID: productID, Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(v).Error)
	return v
}

func userIdentity(id uint) Identity {
	return Identity{UserID: &id}
}

func sessionIdentity(sid string) Identity {
	return Identity{SessionID: &sid}
}

func productStock(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()

	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func variantStock(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()

	var v models.ProductVariant
	require.NoError(t, db.First(&v, id).Error)
	return v.Stock
}
