package httpserver

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Webhook-Signature"

// maxWebhookBody bounds what the webhook reads before verifying.
const maxWebhookBody = 1 << 20

type OrderHTTP struct {
	Svc      *service.OrderService
	Payments *service.PaymentService
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.order")

	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "create_order_error", err)
	}

	o, err := h.Svc.Create(ctx, actor(c), req)
	if err != nil {
		return serviceError(c, l, "create_order_error", err)
	}
	l.Info("order_created", "order_id", o.ID, "total", o.TotalAmount)
	return ok(c, http.StatusCreated, "Order created successfully", o)
}

// orderQuery reads the order list filters shared by the buyer and admin views.
func orderQuery(c echo.Context) (transport.OrderQuery, error) {
	page, limit := pageParams(c)
	q := transport.OrderQuery{
		Page:          page,
		Limit:         limit,
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("paymentStatus"),
	}
	return q, c.Validate(&q)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.orders")

	q, err := orderQuery(c)
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}
	orders, p, err := h.Svc.List(ctx, actor(c), q)
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}
	return paged(c, orders, p)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.order")

	id, err := pathID(c, "id", "order")
	if err != nil {
		return serviceError(c, l, "get_order_error", err)
	}
	o, err := h.Svc.Get(ctx, actor(c), id)
	if err != nil {
		return serviceError(c, l, "get_order_error", err)
	}
	return ok(c, http.StatusOK, "", o)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cancel.order")

	id, err := pathID(c, "id", "order")
	if err != nil {
		return serviceError(c, l, "cancel_order_error", err)
	}
	o, err := h.Svc.Cancel(ctx, actor(c), id)
	if err != nil {
		return serviceError(c, l, "cancel_order_error", err)
	}
	l.Info("order_cancelled", "order_id", o.ID)
	return ok(c, http.StatusOK, "Order cancelled successfully", o)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.order.status")

	id, err := pathID(c, "id", "order")
	if err != nil {
		return serviceError(c, l, "update_order_status_error", err)
	}
	var req transport.UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "update_order_status_error", err)
	}

	o, err := h.Svc.UpdateStatus(ctx, actor(c), id, req)
	if err != nil {
		return serviceError(c, l, "update_order_status_error", err)
	}
	l.Info("order_status_updated", "order_id", o.ID, "order_status", o.OrderStatus)
	return ok(c, http.StatusOK, "Order status updated successfully", o)
}

// PaymentWebhook verifies the signature over the exact bytes received, so the
// body is read raw instead of bound.
func (h *OrderHTTP) PaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return serviceError(c, l, "payment_webhook_error", domain.FieldErrors{"body": "Invalid request body"})
	}

	if err := h.Payments.HandleWebhook(ctx, body, c.Request().Header.Get(SignatureHeader)); err != nil {
		return serviceError(c, l, "payment_webhook_error", err)
	}
	return ok(c, http.StatusOK, "Webhook processed", nil)
}
