package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := identityFrom(c, false)
	if err != nil {
		// No session yet means an empty cart, not an error.
		return c.JSON(http.StatusOK, map[string]any{"items": []any{}, "total": 0})
	}

	cart, err := h.Svc.GetCart(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cart":  cart,
		"total": cart.TotalAmount(),
	})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req service.AddToCartInput
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := identityFrom(c, true)
	if err != nil {
		return err
	}

	cart, err := h.Svc.AddToCart(ctx, id, req)
	if err != nil {
		l.Warn("add_item_error", "error", err)
		return httpError(err)
	}

	l.Info("add_item_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := identityFrom(c, false)
	if err != nil {
		return err
	}

	cart, err := h.Svc.UpdateItemQuantity(ctx, id, uint(productID), req.Quantity)
	if err != nil {
		l.Warn("update_item_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	id, err := identityFrom(c, false)
	if err != nil {
		return err
	}

	cart, err := h.Svc.RemoveItem(ctx, id, uint(productID))
	if err != nil {
		l.Warn("remove_item_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := identityFrom(c, false)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MergeCart folds the guest session cart into the signed-in user's cart.
func (h *CartHTTP) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.merge")

	userID := userIDFromContext(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		cart, err := h.Svc.GetCart(ctx, service.Identity{UserID: userID})
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, cart)
	}

	cart, err := h.Svc.MergeCarts(ctx, *userID, cookie.Value)
	if err != nil {
		l.Warn("merge_error", "error", err)
		return httpError(err)
	}

	l.Info("merge_success", "cart_id", cart.ID)
	return c.JSON(http.StatusOK, cart)
}
