package service

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
	"github.com/truongnx/gearstore/internal/service/search"
)

// CatalogService covers product reads and the admin write paths, including
// manual restock through the stock ledger.
type CatalogService struct {
	Repo   *repo.GormRepo
	Events *mykafka.Producer
	ES     *elasticsearch.Client
	Index  string
}

type ProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	SKU         *string        `json:"sku,omitempty"`
	Price       float64        `json:"price"`
	Stock       uint           `json:"stock"`
	CategoryID  *uint          `json:"category_id,omitempty"`
	BrandID     *uint          `json:"brand_id,omitempty"`
	Variants    []VariantInput `json:"variants,omitempty"`
}

type VariantInput struct {
	Name  string  `json:"name"`
	SKU   *string `json:"sku,omitempty"`
	Price float64 `json:"price"`
	Stock uint    `json:"stock"`
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int, activeOnly bool) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, offset, limit, activeOnly)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		SKU:         in.SKU,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		IsActive:    true,
	}
	for _, v := range in.Variants {
		if v.Price < 0 {
			return nil, fmt.Errorf("%w: variant price cannot be negative", models.ErrValidation)
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:     v.Name,
			SKU:      v.SKU,
			Price:    v.Price,
			Stock:    v.Stock,
			IsActive: true,
		})
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	publish(ctx, s.Events, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	CategoryID  *uint    `json:"category_id,omitempty"`
	BrandID     *uint    `json:"brand_id,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.SKU != nil {
		product.SKU = patch.SKU
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		product.CategoryID = patch.CategoryID
	}
	if patch.BrandID != nil {
		product.BrandID = patch.BrandID
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	publish(ctx, s.Events, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

// DeactivateProduct soft-deletes: order item snapshots keep their data, so
// nothing is ever hard-deleted from the catalog.
func (s *CatalogService) DeactivateProduct(ctx context.Context, id uint) error {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	product.Deactivate()
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return err
	}

	s.index(ctx, product)
	publish(ctx, s.Events, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_deactivated",
		"product_id": product.ID,
	})
	return nil
}

// Restock feeds inventory back in through the ledger's increase operation,
// for a product or one of its variants.
func (s *CatalogService) Restock(ctx context.Context, productID uint, variantID *uint, quantity uint) (*models.Product, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if variantID != nil {
		variant := product.Variant(*variantID)
		if variant == nil {
			return nil, fmt.Errorf("%w: variant %d", models.ErrNotFound, *variantID)
		}
		if err := s.Repo.IncrementVariantStock(ctx, variant.ID, quantity); err != nil {
			return nil, err
		}
	} else if err := s.Repo.IncrementProductStock(ctx, product.ID, quantity); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_restocked",
		"product_id": product.ID,
		"quantity":   quantity,
	})
	return s.Repo.GetProduct(ctx, productID)
}

func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, s.Index, product); err != nil {
		publishIndexError(ctx, product.ID, err)
	}
}

func validateProductInput(in ProductInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	}
	return nil
}
