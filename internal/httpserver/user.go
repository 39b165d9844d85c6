package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	view, err := h.Svc.Get(ctx, actor(c))
	if err != nil {
		return serviceError(c, l, "get_cart_error", err)
	}
	return ok(c, http.StatusOK, "", view)
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	productID, err := pathID(c, "productId", "product")
	if err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}
	var req transport.AddToCartRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return serviceError(c, l, "add_to_cart_error", err)
		}
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	view, err := h.Svc.Add(ctx, actor(c), productID, qty)
	if err != nil {
		return serviceError(c, l, "add_to_cart_error", err)
	}
	return ok(c, http.StatusOK, "Item added to cart", view)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	productID, err := pathID(c, "productId", "product")
	if err != nil {
		return serviceError(c, l, "update_cart_error", err)
	}
	var req transport.SetCartQuantityRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "update_cart_error", err)
	}

	view, err := h.Svc.SetQuantity(ctx, actor(c), productID, *req.Quantity)
	if err != nil {
		return serviceError(c, l, "update_cart_error", err)
	}
	return ok(c, http.StatusOK, "Cart updated", view)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	if err := h.Svc.Clear(ctx, actor(c)); err != nil {
		return serviceError(c, l, "clear_cart_error", err)
	}
	return ok(c, http.StatusOK, "Cart cleared", nil)
}

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.wishlist")

	items, err := h.Svc.Get(ctx, actor(c))
	if err != nil {
		return serviceError(c, l, "get_wishlist_error", err)
	}
	return ok(c, http.StatusOK, "", items)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.wishlist")

	productID, err := pathID(c, "productId", "product")
	if err != nil {
		return serviceError(c, l, "add_to_wishlist_error", err)
	}
	if err := h.Svc.Add(ctx, actor(c), productID); err != nil {
		return serviceError(c, l, "add_to_wishlist_error", err)
	}
	return ok(c, http.StatusOK, "Product added to wishlist", nil)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.wishlist")

	productID, err := pathID(c, "productId", "product")
	if err != nil {
		return serviceError(c, l, "remove_from_wishlist_error", err)
	}
	if err := h.Svc.Remove(ctx, actor(c), productID); err != nil {
		return serviceError(c, l, "remove_from_wishlist_error", err)
	}
	return ok(c, http.StatusOK, "Product removed from wishlist", nil)
}
