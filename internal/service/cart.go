package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events *mykafka.Producer
}

type AddToCartInput struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  uint  `json:"quantity"`
}

func (s *CartService) GetCart(ctx context.Context, id Identity) (*models.Cart, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	cart, err := resolveCart(ctx, s.Repo, id)
	if errors.Is(err, models.ErrNotFound) {
		// An untouched cart reads as empty, it is only created on first add.
		if id.UserID != nil {
			return models.NewUserCart(*id.UserID)
		}
		return models.NewGuestCart(*id.SessionID)
	}
	return cart, err
}

// AddToCart validates the product against live catalog data and snapshots
// name and price into the cart line.
func (s *CartService) AddToCart(ctx context.Context, id Identity, in AddToCartInput) (*models.Cart, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %q is not available", models.ErrConflict, product.Name)
	}

	price := product.Price
	var variantName *string
	if in.VariantID != nil {
		variant := product.Variant(*in.VariantID)
		if variant == nil {
			return nil, fmt.Errorf("%w: variant %d", models.ErrNotFound, *in.VariantID)
		}
		if variant.Stock < in.Quantity {
			return nil, fmt.Errorf("%w: %s - %s", models.ErrInsufficientStock, product.Name, variant.Name)
		}
		price = variant.Price
		variantName = &variant.Name
	} else if product.Stock < in.Quantity {
		return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, product.Name)
	}

	cart, err := getOrCreateCart(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(product.ID, in.VariantID, product.Name, variantName, price, in.Quantity); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "cart_events", id.Key(), map[string]any{
		"type":       "cart_item_added",
		"cart_id":    cart.ID,
		"product_id": product.ID,
		"quantity":   in.Quantity,
	})
	return cart, nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, id Identity, productID uint, quantity uint) (*models.Cart, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	cart, err := resolveCart(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateItemQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "cart_events", id.Key(), map[string]any{
		"type":       "cart_item_updated",
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, id Identity, productID uint) (*models.Cart, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	cart, err := resolveCart(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "cart_events", id.Key(), map[string]any{
		"type":       "cart_item_removed",
		"cart_id":    cart.ID,
		"product_id": productID,
	})
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, id Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}

	cart, err := resolveCart(ctx, s.Repo, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	cart.Clear()
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return err
	}

	publish(ctx, s.Events, "cart_events", id.Key(), map[string]any{
		"type":    "cart_cleared",
		"cart_id": cart.ID,
	})
	return nil
}

// MergeCarts runs at login: the guest cart either becomes the user cart or
// folds into the existing one, and the guest cart row goes away.
func (s *CartService) MergeCarts(ctx context.Context, userID uint, sessionID string) (*models.Cart, error) {
	guestCart, err := s.Repo.GetCartBySessionID(ctx, sessionID)
	if errors.Is(err, models.ErrNotFound) {
		return s.GetCart(ctx, Identity{UserID: &userID})
	}
	if err != nil {
		return nil, err
	}

	userCart, err := s.Repo.GetCartByUserID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		if err := guestCart.ConvertToUserCart(userID); err != nil {
			return nil, err
		}
		if err := s.Repo.SaveCart(ctx, guestCart); err != nil {
			return nil, err
		}
		publish(ctx, s.Events, "cart_events", fmt.Sprintf("user:%d", userID), map[string]any{
			"type":    "cart_converted",
			"cart_id": guestCart.ID,
			"user_id": userID,
		})
		return guestCart, nil
	}
	if err != nil {
		return nil, err
	}

	if err := userCart.MergeWith(guestCart); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, userCart); err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteCart(ctx, guestCart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "cart_events", fmt.Sprintf("user:%d", userID), map[string]any{
		"type":    "cart_merged",
		"cart_id": userCart.ID,
		"user_id": userID,
	})
	return userCart, nil
}
