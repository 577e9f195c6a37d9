package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
)

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := r.DB.WithContext(ctx).Order("display_order ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.DB.WithContext(ctx).Save(category).Error
}

func (r *GormRepo) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: brand %d", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &brand, nil
}

func (r *GormRepo) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	q := r.DB.WithContext(ctx).Order("display_order ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var brands []models.Brand
	if err := q.Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *GormRepo) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.DB.WithContext(ctx).Create(brand).Error
}

func (r *GormRepo) SaveBrand(ctx context.Context, brand *models.Brand) error {
	return r.DB.WithContext(ctx).Save(brand).Error
}

func (r *GormRepo) CountProductsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountProductsOfBrand(ctx context.Context, brandID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("brand_id = ?", brandID).Count(&n).Error
	return n, err
}
