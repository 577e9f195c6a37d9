package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/truongnx/gearstore/internal/logging"
	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/service"
	"github.com/truongnx/gearstore/internal/util"
)

type OrderHTTP struct {
	Checkout *service.CheckoutService
	Svc      *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req service.CheckoutInput
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := identityFrom(c, false)
	if err != nil {
		return err
	}

	order, err := h.Checkout.Checkout(ctx, id, req)
	if err != nil {
		l.Warn("checkout_error", "error", err)
		return httpError(err)
	}

	l.Info("checkout_success", "order_number", order.OrderNumber)
	return c.JSON(http.StatusCreated, map[string]any{
		"order": order,
		"total": order.TotalAmount(),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, uint(orderID), userIDFromContext(c), isAdmin(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"total": order.TotalAmount(),
	})
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID := userIDFromContext(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListMyOrders(ctx, *userID, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": orders, "total": total})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListAllOrders(ctx, offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": orders, "total": total})
}

// UpdateStatus drives the order state machine from the admin back-office.
func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
		Note   *string            `json:"note,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var actor *string
	if userID := userIDFromContext(c); userID != nil {
		a := strconv.FormatUint(uint64(*userID), 10)
		actor = &a
	}

	order, err := h.Svc.TransitionStatus(ctx, uint(orderID), req.Status, req.Note, actor)
	if err != nil {
		l.Warn("update_status_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	l.Info("update_status_success", "order_id", orderID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

// UpdatePayment settles or un-settles an order from the admin back-office,
// e.g. when a bank transfer is confirmed.
func (h *OrderHTTP) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_payment")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Paid bool `json:"paid"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetPaymentStatus(ctx, uint(orderID), req.Paid)
	if err != nil {
		l.Warn("update_payment_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	l.Info("update_payment_success", "order_id", orderID, "payment_status", order.PaymentStatus)
	return c.JSON(http.StatusOK, order)
}

// Dashboard returns the aggregate counters shown on the admin landing page.
func (h *OrderHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.Svc.DashboardStats(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
