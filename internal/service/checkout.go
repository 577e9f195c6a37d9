package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
)

// CheckoutService converts a cart into a pending order inside a single
// transaction: validate every line against live stock, decrement, snapshot,
// clear the cart. Any failure rolls the whole thing back.
type CheckoutService struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Events *mykafka.Producer
}

type CheckoutInput struct {
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerEmail   *string              `json:"customer_email,omitempty"`
	ShippingAddress string               `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Notes           *string              `json:"notes,omitempty"`
}

func (s *CheckoutService) Checkout(ctx context.Context, id Identity, in CheckoutInput) (*models.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	order, err := s.checkoutOnce(ctx, id, in)
	if errors.Is(err, models.ErrStockConflict) {
		// Stock moved under us between validation and the conditional
		// write. Re-validate once against fresh data before giving up.
		order, err = s.checkoutOnce(ctx, id, in)
		if errors.Is(err, models.ErrStockConflict) {
			err = fmt.Errorf("%w: stock changed, please retry", models.ErrInsufficientStock)
		}
	}
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "order_events", order.OrderNumber, map[string]any{
		"type":         "order_created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount(),
		"items":        len(order.Items),
	})
	return order, nil
}

func (s *CheckoutService) checkoutOnce(ctx context.Context, id Identity, in CheckoutInput) (*models.Order, error) {
	var order *models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		cart, err := resolveCart(ctx, r, id)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: cart is empty", models.ErrConflict)
		}
		if err != nil {
			return err
		}
		if err := cart.ValidateForCheckout(); err != nil {
			return err
		}

		products, err := r.GetProductsByIDs(ctx, distinctProductIDs(cart.Items))
		if err != nil {
			return err
		}

		// Validate every line before any write so a failing line cannot
		// leave behind partial decrements.
		for _, item := range cart.Items {
			product, ok := products[item.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %q", models.ErrNotFound, item.ProductName)
			}
			if !product.IsActive {
				return fmt.Errorf("%w: product %q is not active", models.ErrConflict, product.Name)
			}
			if item.VariantID != nil {
				variant := product.Variant(*item.VariantID)
				if variant == nil {
					return fmt.Errorf("%w: variant %d of product %q", models.ErrNotFound, *item.VariantID, product.Name)
				}
				if variant.Stock < item.Quantity {
					return fmt.Errorf("%w: %s - %s", models.ErrInsufficientStock, product.Name, variant.Name)
				}
			} else if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %s", models.ErrInsufficientStock, product.Name)
			}
		}

		order, err = models.NewOrder(
			generateOrderNumber(),
			in.CustomerName,
			in.CustomerPhone,
			in.ShippingAddress,
			in.PaymentMethod,
			id.UserID,
			in.CustomerEmail,
			in.Notes,
		)
		if err != nil {
			return err
		}

		// Snapshots come from the validated catalog rows, not from the
		// cart, so a stale cart price cannot leak into the order.
		for _, item := range cart.Items {
			product := products[item.ProductID]

			price := product.Price
			sku := product.SKU
			var variantName *string

			if item.VariantID != nil {
				variant := product.Variant(*item.VariantID)
				price = variant.Price
				variantName = &variant.Name
				if variant.SKU != nil {
					sku = variant.SKU
				}
				if err := r.DecrementVariantStock(ctx, variant.ID, item.Quantity); err != nil {
					return err
				}
			} else {
				if err := r.DecrementProductStock(ctx, product.ID, item.Quantity); err != nil {
					return err
				}
			}

			if err := order.AddItem(product.ID, product.Name, sku, item.VariantID, variantName, price, item.Quantity); err != nil {
				return err
			}
		}

		if err := order.ValidateForCheckout(); err != nil {
			return err
		}
		if err := r.CreateOrder(ctx, order); err != nil {
			return err
		}

		cart.Clear()
		return r.SaveCart(ctx, cart)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func distinctProductIDs(items []models.CartItem) []uint {
	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// generateOrderNumber builds a human-legible unique number such as
// ORD-20250101-9F3A1C. Uniqueness is backed by the order_number index.
func generateOrderNumber() string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:3]))
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
