package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
)

// OrderService owns the post-creation lifecycle: status transitions with
// history, stock restoration on cancellation, and order reads.
type OrderService struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Events *mykafka.Producer
}

// TransitionStatus is the single entry point for moving an order through
// its lifecycle. Cancellation restores stock for every line in the same
// transaction as the status write.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uint, newStatus models.OrderStatus, note, actor *string) (*models.Order, error) {
	var order *models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		var err error
		order, err = r.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.UpdateStatus(newStatus, note, actor); err != nil {
			return err
		}

		if newStatus == models.StatusCancelled {
			for _, item := range order.Items {
				if item.VariantID != nil {
					err = r.IncrementVariantStock(ctx, *item.VariantID, item.Quantity)
				} else {
					err = r.IncrementProductStock(ctx, item.ProductID, item.Quantity)
				}
				if err != nil {
					return err
				}
			}
		}

		return r.SaveOrder(ctx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.Events, "order_events", order.OrderNumber, map[string]any{
		"type":         "order_status_changed",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
	return order, nil
}

// SetPaymentStatus settles or un-settles an order manually, e.g. when a
// bank transfer lands or bounces.
func (s *OrderService) SetPaymentStatus(ctx context.Context, orderID uint, paid bool) (*models.Order, error) {
	var order *models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		var err error
		order, err = r.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if paid {
			err = order.MarkAsPaid()
		} else {
			err = order.MarkAsUnpaid()
		}
		if err != nil {
			return err
		}

		return r.SaveOrder(ctx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.Events, "order_events", order.OrderNumber, map[string]any{
		"type":           "order_payment_changed",
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})
	return order, nil
}

// GetOrder enforces ownership: non-admin callers only see their own
// orders, and a foreign order reads as not found.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint, requester *uint, isAdmin bool) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return order, nil
	}
	if requester == nil || order.UserID == nil || *order.UserID != *requester {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID, offset, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

// DashboardStats aggregates storefront-wide totals for the admin
// dashboard. Cancelled orders are excluded from revenue.
func (s *OrderService) DashboardStats(ctx context.Context) (*repo.DashboardStats, error) {
	return s.Repo.GetDashboardStats(ctx)
}
