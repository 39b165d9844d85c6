package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.products")

	page, limit := pageParams(c)
	fe := domain.FieldErrors{}
	q := transport.ProductQuery{
		Page:      page,
		Limit:     limit,
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		Brand:     c.QueryParam("brand"),
		Condition: c.QueryParam("condition"),
		Storage:   c.QueryParam("storage"),
		MinPrice:  optionalInt64(c, "minPrice", fe),
		MaxPrice:  optionalInt64(c, "maxPrice", fe),
		Sort:      c.QueryParam("sort"),
	}
	if err := fe.Err(); err != nil {
		return serviceError(c, l, "list_products_error", err)
	}
	if err := c.Validate(&q); err != nil {
		return serviceError(c, l, "list_products_error", err)
	}

	items, p, err := h.Svc.ListProducts(ctx, q)
	if err != nil {
		return serviceError(c, l, "list_products_error", err)
	}
	return paged(c, items, p)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	page, limit := pageParams(c)
	items, p, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, limit)
	if err != nil {
		return serviceError(c, l, "search_products_error", err)
	}
	return paged(c, items, p)
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.product")

	id, err := pathID(c, "id", "product")
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}
	p, err := h.Svc.GetProduct(ctx, actor(c), id)
	if err != nil {
		return serviceError(c, l, "get_product_error", err)
	}
	return ok(c, http.StatusOK, "", p)
}

// Create serves both the admin listing endpoint and the user "sell" endpoint.
// The actor's role decides whether the listing starts approved.
func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.product")

	var req transport.ProductInput
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "create_product_error", err)
	}

	who := actor(c)
	p, err := h.Svc.CreateProduct(ctx, who, req)
	if err != nil {
		return serviceError(c, l, "create_product_error", err)
	}

	msg := "Product created successfully"
	if !p.IsApproved {
		msg = "Product submitted for approval"
	}
	l.Info("product_created", "product_id", p.ID, "approved", p.IsApproved)
	return ok(c, http.StatusCreated, msg, p)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.product")

	id, err := pathID(c, "id", "product")
	if err != nil {
		return serviceError(c, l, "update_product_error", err)
	}
	var req transport.ProductPatch
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "update_product_error", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, actor(c), id, req)
	if err != nil {
		return serviceError(c, l, "update_product_error", err)
	}
	return ok(c, http.StatusOK, "Product updated successfully", p)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.product")

	id, err := pathID(c, "id", "product")
	if err != nil {
		return serviceError(c, l, "delete_product_error", err)
	}
	if err := h.Svc.DeleteProduct(ctx, actor(c), id); err != nil {
		return serviceError(c, l, "delete_product_error", err)
	}
	l.Info("product_deleted", "product_id", id)
	return ok(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return serviceError(c, l, "list_categories_error", err)
	}
	return ok(c, http.StatusOK, "", cats)
}

func (h *ProductHTTP) Brands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.brands")

	brands, err := h.Svc.ListBrands(ctx)
	if err != nil {
		return serviceError(c, l, "list_brands_error", err)
	}
	return ok(c, http.StatusOK, "", brands)
}

func (h *ProductHTTP) MyProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.my.products")

	page, limit := pageParams(c)
	items, p, err := h.Svc.ListMyProducts(ctx, actor(c), page, limit)
	if err != nil {
		return serviceError(c, l, "list_my_products_error", err)
	}
	return paged(c, items, p)
}
