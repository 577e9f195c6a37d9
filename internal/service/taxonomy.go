package service

import (
	"context"
	"fmt"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
)

// TaxonomyService owns the category and brand trees the storefront
// navigates by. Both follow the catalog's soft-delete policy.
type TaxonomyService struct {
	Repo   *repo.GormRepo
	Events *mykafka.Producer
}

type CategoryInput struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

type BrandInput struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	WebsiteURL   *string `json:"website_url,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsFeatured   *bool   `json:"is_featured,omitempty"`
}

func (s *TaxonomyService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, activeOnly)
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.Repo.GetCategory(ctx, id)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category, err := models.NewCategory(in.Name, in.Slug)
	if err != nil {
		return nil, err
	}
	category.Description = in.Description
	category.Icon = in.Icon
	if in.DisplayOrder != nil {
		if err := category.UpdateDisplayOrder(*in.DisplayOrder); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(category.ID), map[string]any{
		"type":        "category_created",
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.UpdateInfo(in.Name, in.Slug); err != nil {
		return nil, err
	}
	if in.Description != nil {
		category.Description = in.Description
	}
	if in.Icon != nil {
		category.Icon = in.Icon
	}
	if in.DisplayOrder != nil {
		if err := category.UpdateDisplayOrder(*in.DisplayOrder); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(category.ID), map[string]any{
		"type":        "category_updated",
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

// DeactivateCategory soft-deletes so products keep a resolvable category.
func (s *TaxonomyService) DeactivateCategory(ctx context.Context, id uint) error {
	category, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	category.Deactivate()
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(category.ID), map[string]any{
		"type":        "category_deactivated",
		"category_id": category.ID,
	})
	return nil
}

func (s *TaxonomyService) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx, activeOnly)
}

func (s *TaxonomyService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	return s.Repo.GetBrand(ctx, id)
}

func (s *TaxonomyService) CreateBrand(ctx context.Context, in BrandInput) (*models.Brand, error) {
	brand, err := models.NewBrand(in.Name, in.Slug)
	if err != nil {
		return nil, err
	}
	brand.Description = in.Description
	brand.LogoURL = in.LogoURL
	brand.WebsiteURL = in.WebsiteURL
	if in.DisplayOrder != nil {
		if err := brand.UpdateDisplayOrder(*in.DisplayOrder); err != nil {
			return nil, err
		}
	}
	if in.IsFeatured != nil {
		brand.SetFeatured(*in.IsFeatured)
	}

	if err := s.Repo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(brand.ID), map[string]any{
		"type":     "brand_created",
		"brand_id": brand.ID,
		"name":     brand.Name,
	})
	return brand, nil
}

func (s *TaxonomyService) UpdateBrand(ctx context.Context, id uint, in BrandInput) (*models.Brand, error) {
	brand, err := s.Repo.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := brand.UpdateInfo(in.Name, in.Slug); err != nil {
		return nil, err
	}
	if in.Description != nil {
		brand.Description = in.Description
	}
	if in.LogoURL != nil {
		brand.LogoURL = in.LogoURL
	}
	if in.WebsiteURL != nil {
		brand.WebsiteURL = in.WebsiteURL
	}
	if in.DisplayOrder != nil {
		if err := brand.UpdateDisplayOrder(*in.DisplayOrder); err != nil {
			return nil, err
		}
	}
	if in.IsFeatured != nil {
		brand.SetFeatured(*in.IsFeatured)
	}

	if err := s.Repo.SaveBrand(ctx, brand); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(brand.ID), map[string]any{
		"type":     "brand_updated",
		"brand_id": brand.ID,
		"name":     brand.Name,
	})
	return brand, nil
}

func (s *TaxonomyService) DeactivateBrand(ctx context.Context, id uint) error {
	brand, err := s.Repo.GetBrand(ctx, id)
	if err != nil {
		return err
	}

	brand.Deactivate()
	if err := s.Repo.SaveBrand(ctx, brand); err != nil {
		return err
	}

	publish(ctx, s.Events, "product_events", fmt.Sprint(brand.ID), map[string]any{
		"type":     "brand_deactivated",
		"brand_id": brand.ID,
	})
	return nil
}
