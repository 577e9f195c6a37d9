package models

import (
	"fmt"
	"time"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `json:"description"`
	SKU         *string `json:"sku,omitempty"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Stock       uint    `gorm:"not null;default:0"        json:"stock"`
	SoldCount   uint    `gorm:"not null;default:0"        json:"sold_count"`
	IsActive    bool    `gorm:"not null;default:true"     json:"is_active"`
	CategoryID  *uint   `gorm:"index"                     json:"category_id,omitempty"`
	BrandID     *uint   `gorm:"index"                     json:"brand_id,omitempty"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ProductVariant struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	ProductID uint    `gorm:"index;not null"            json:"product_id"`
	Name      string  `gorm:"not null"                  json:"name"`
	SKU       *string `json:"sku,omitempty"`
	Price     float64 `gorm:"not null"                  json:"price"`
	Stock     uint    `gorm:"not null;default:0"        json:"stock"`
	SoldCount uint    `gorm:"not null;default:0"        json:"sold_count"`
	IsActive  bool    `gorm:"not null;default:true"     json:"is_active"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DecreaseStock consumes inventory when a product-scoped line is sold.
// Failing the stock check leaves the product untouched.
func (p *Product) DecreaseStock(quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if p.Stock < quantity {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
	}
	p.Stock -= quantity
	p.SoldCount += quantity
	p.markUpdated()
	return nil
}

// IncreaseStock is used for manual restock and for order-cancellation
// restoration. Always unconditional.
func (p *Product) IncreaseStock(quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	p.Stock += quantity
	p.markUpdated()
	return nil
}

func (p *Product) Deactivate() {
	p.IsActive = false
	p.markUpdated()
}

func (p *Product) Variant(variantID uint) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) markUpdated() {
	now := time.Now().UTC()
	p.UpdatedAt = &now
}

func (v *ProductVariant) DecreaseStock(quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if v.Stock < quantity {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, v.Name)
	}
	v.Stock -= quantity
	v.SoldCount += quantity
	v.markUpdated()
	return nil
}

func (v *ProductVariant) IncreaseStock(quantity uint) error {
	if quantity == 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	v.Stock += quantity
	v.markUpdated()
	return nil
}

func (v *ProductVariant) markUpdated() {
	now := time.Now().UTC()
	v.UpdatedAt = &now
}
