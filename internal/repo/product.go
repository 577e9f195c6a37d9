package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).Preload("Variants").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs batch-loads products with their variants. Missing ids
// are simply absent from the result; callers decide whether that is fatal.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Preload("Variants").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int, activeOnly bool) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Preload("Variants").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// DecrementProductStock is the persistence half of the stock ledger: an
// atomic conditional UPDATE guarded by the current stock level. Zero rows
// affected means the row changed since it was validated, which the caller
// treats as a retryable stock conflict.
func (r *GormRepo) DecrementProductStock(ctx context.Context, productID uint, quantity uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"sold_count": gorm.Expr("sold_count + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", models.ErrStockConflict, productID)
	}
	return nil
}

func (r *GormRepo) DecrementVariantStock(ctx context.Context, variantID uint, quantity uint) error {
	res := r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"sold_count": gorm.Expr("sold_count + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: variant %d", models.ErrStockConflict, variantID)
	}
	return nil
}

func (r *GormRepo) IncrementProductStock(ctx context.Context, productID uint, quantity uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
	}
	return nil
}

func (r *GormRepo) IncrementVariantStock(ctx context.Context, variantID uint, quantity uint) error {
	res := r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: variant %d", models.ErrNotFound, variantID)
	}
	return nil
}
