package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/mykafka"
	"github.com/truongnx/gearstore/internal/repo"
)

// Identity names the owner of a cart: a signed-in user or a guest session.
// Exactly one side must be set.
type Identity struct {
	UserID    *uint
	SessionID *string
}

func (id Identity) Key() string {
	if id.UserID != nil {
		return fmt.Sprintf("user:%d", *id.UserID)
	}
	if id.SessionID != nil {
		return "session:" + *id.SessionID
	}
	return ""
}

func (id Identity) Validate() error {
	if id.UserID == nil && id.SessionID == nil {
		return fmt.Errorf("%w: user id or session id is required", models.ErrValidation)
	}
	return nil
}

func resolveCart(ctx context.Context, r *repo.GormRepo, id Identity) (*models.Cart, error) {
	if id.UserID != nil {
		return r.GetCartByUserID(ctx, *id.UserID)
	}
	return r.GetCartBySessionID(ctx, *id.SessionID)
}

func getOrCreateCart(ctx context.Context, r *repo.GormRepo, id Identity) (*models.Cart, error) {
	cart, err := resolveCart(ctx, r, id)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if id.UserID != nil {
		cart, err = models.NewUserCart(*id.UserID)
	} else {
		cart, err = models.NewGuestCart(*id.SessionID)
	}
	if err != nil {
		return nil, err
	}
	if err := r.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// publish sends a domain event. Delivery failures are logged and never
// fail the calling operation.
func publish(ctx context.Context, events *mykafka.Producer, topic, key string, event map[string]any) {
	if events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := events.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}

func publishIndexError(ctx context.Context, productID uint, err error) {
	logging.FromContext(ctx).Error("search index error", "product_id", productID, "error", err)
}
