package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return serviceError(c, l, "dashboard_error", err)
	}
	return ok(c, http.StatusOK, "", d)
}

func (h *AdminHTTP) Users(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.users")

	page, limit := pageParams(c)
	users, p, err := h.Svc.ListUsers(ctx, page, limit)
	if err != nil {
		return serviceError(c, l, "list_users_error", err)
	}
	return paged(c, users, p)
}

func (h *AdminHTTP) SetUserStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.user.status")

	id, err := pathID(c, "id", "user")
	if err != nil {
		return serviceError(c, l, "user_status_error", err)
	}
	var req transport.UserStatusRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "user_status_error", err)
	}

	u, err := h.Svc.SetUserActive(ctx, id, *req.IsActive)
	if err != nil {
		return serviceError(c, l, "user_status_error", err)
	}
	l.Info("user_status_updated", "user_id", u.ID, "active", u.IsActive)

	msg := "User deactivated successfully"
	if u.IsActive {
		msg = "User activated successfully"
	}
	return ok(c, http.StatusOK, msg, u)
}

func (h *AdminHTTP) Pending(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.pending")

	page, limit := pageParams(c)
	items, p, err := h.Svc.ListPending(ctx, page, limit)
	if err != nil {
		return serviceError(c, l, "list_pending_error", err)
	}
	return paged(c, items, p)
}

func (h *AdminHTTP) Approve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.approve")

	id, err := pathID(c, "id", "product")
	if err != nil {
		return serviceError(c, l, "approve_product_error", err)
	}
	p, err := h.Svc.Approve(ctx, id)
	if err != nil {
		return serviceError(c, l, "approve_product_error", err)
	}
	l.Info("product_approved", "product_id", p.ID)
	return ok(c, http.StatusOK, "Product approved successfully", p)
}

func (h *AdminHTTP) Reject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.reject")

	id, err := pathID(c, "id", "product")
	if err != nil {
		return serviceError(c, l, "reject_product_error", err)
	}
	var req transport.RejectRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "reject_product_error", err)
	}

	p, err := h.Svc.Reject(ctx, id, req.Reason)
	if err != nil {
		return serviceError(c, l, "reject_product_error", err)
	}
	l.Info("product_rejected", "product_id", p.ID)
	return ok(c, http.StatusOK, "Product rejected", p)
}

func (h *AdminHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	q, err := orderQuery(c)
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}
	orders, p, err := h.Svc.ListOrders(ctx, q)
	if err != nil {
		return serviceError(c, l, "list_orders_error", err)
	}
	return paged(c, orders, p)
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create.category")

	var req transport.CategoryInput
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "create_category_error", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return serviceError(c, l, "create_category_error", err)
	}
	l.Info("category_created", "category_id", cat.ID)
	return ok(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *AdminHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update.category")

	id, err := pathID(c, "id", "category")
	if err != nil {
		return serviceError(c, l, "update_category_error", err)
	}
	var req transport.CategoryPatch
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "update_category_error", err)
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return serviceError(c, l, "update_category_error", err)
	}
	return ok(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *AdminHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete.category")

	id, err := pathID(c, "id", "category")
	if err != nil {
		return serviceError(c, l, "delete_category_error", err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return serviceError(c, l, "delete_category_error", err)
	}
	l.Info("category_deleted", "category_id", id)
	return ok(c, http.StatusOK, "Category deleted successfully", nil)
}
