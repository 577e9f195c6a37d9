package models

import (
	"fmt"
	"strings"
	"time"
)

// Category groups products for storefront navigation (CPU, Mainboard,
// RAM...). Soft-deleted like products: deactivated, never dropped.
type Category struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null"                 json:"name"`
	Slug         string  `gorm:"uniqueIndex;not null"     json:"slug"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	DisplayOrder int     `gorm:"not null;default:0"       json:"display_order"`
	IsActive     bool    `gorm:"not null;default:true"    json:"is_active"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Brand is a product manufacturer (Intel, AMD, ASUS...).
type Brand struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null"                 json:"name"`
	Slug         string  `gorm:"uniqueIndex;not null"     json:"slug"`
	Description  *string `json:"description,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	WebsiteURL   *string `json:"website_url,omitempty"`
	DisplayOrder int     `gorm:"not null;default:0"       json:"display_order"`
	IsActive     bool    `gorm:"not null;default:true"    json:"is_active"`
	IsFeatured   bool    `gorm:"not null;default:false"   json:"is_featured"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func NewCategory(name, slug string) (*Category, error) {
	if err := validateTaxonomyFields(name, slug); err != nil {
		return nil, err
	}
	return &Category{Name: name, Slug: slug, IsActive: true}, nil
}

func NewBrand(name, slug string) (*Brand, error) {
	if err := validateTaxonomyFields(name, slug); err != nil {
		return nil, err
	}
	return &Brand{Name: name, Slug: slug, IsActive: true}, nil
}

func validateTaxonomyFields(name, slug string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(slug) == "" {
		return fmt.Errorf("%w: slug is required", ErrValidation)
	}
	return nil
}

func (c *Category) UpdateInfo(name, slug string) error {
	if err := validateTaxonomyFields(name, slug); err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.markUpdated()
	return nil
}

func (c *Category) UpdateDisplayOrder(order int) error {
	if order < 0 {
		return fmt.Errorf("%w: display order cannot be negative", ErrValidation)
	}
	c.DisplayOrder = order
	c.markUpdated()
	return nil
}

func (c *Category) Deactivate() {
	c.IsActive = false
	c.markUpdated()
}

func (c *Category) markUpdated() {
	now := time.Now().UTC()
	c.UpdatedAt = &now
}

func (b *Brand) UpdateInfo(name, slug string) error {
	if err := validateTaxonomyFields(name, slug); err != nil {
		return err
	}
	b.Name = name
	b.Slug = slug
	b.markUpdated()
	return nil
}

func (b *Brand) UpdateDisplayOrder(order int) error {
	if order < 0 {
		return fmt.Errorf("%w: display order cannot be negative", ErrValidation)
	}
	b.DisplayOrder = order
	b.markUpdated()
	return nil
}

func (b *Brand) SetFeatured(featured bool) {
	b.IsFeatured = featured
	b.markUpdated()
}

func (b *Brand) Deactivate() {
	b.IsActive = false
	b.markUpdated()
}

func (b *Brand) markUpdated() {
	now := time.Now().UTC()
	b.UpdatedAt = &now
}
