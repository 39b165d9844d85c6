package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/phone_market/pkg/jwt"
	"github.com/Skotchmaster/phone_market/pkg/logging"
	"github.com/Skotchmaster/phone_market/pkg/middleware/auth"
	"github.com/Skotchmaster/phone_market/pkg/middleware/csrf"
)

type Deps struct {
	Auth     *auth.Middleware
	Ready    func(ctx context.Context) error
	AuthH    *AuthHTTP
	Products *ProductHTTP
	Cart     *CartHTTP
	Wishlist *WishlistHTTP
	Orders   *OrderHTTP
	Admin    *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = errorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	requireUser := []echo.MiddlewareFunc{d.Auth.RequireAuth, d.Auth.RequireActive}
	requireAdmin := []echo.MiddlewareFunc{d.Auth.RequireAuth, d.Auth.RequireActive, auth.RequireAdmin}

	api := e.Group("/api", csrf.Middleware(csrf.Config{AuthCookie: jwthelp.AccessCookie, Secure: true}))

	a := api.Group("/auth")
	a.POST("/register", d.AuthH.Register)
	a.POST("/login", d.AuthH.Login)
	a.POST("/logout", d.AuthH.Logout)
	a.GET("/me", d.AuthH.Me, requireUser...)

	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/search", d.Products.Search)
	products.GET("/categories/all", d.Products.Categories)
	products.GET("/brands/all", d.Products.Brands)
	products.GET("/:id", d.Products.Get, d.Auth.OptionalAuth)
	products.POST("", d.Products.Create, requireAdmin...)
	products.POST("/sell", d.Products.Create, requireUser...)
	products.PUT("/:id", d.Products.Update, requireUser...)
	products.DELETE("/:id", d.Products.Delete, requireUser...)

	users := api.Group("/users", requireUser...)
	users.GET("/cart", d.Cart.Get)
	users.POST("/cart/:productId", d.Cart.Add)
	users.PUT("/cart/:productId", d.Cart.SetQuantity)
	users.DELETE("/cart", d.Cart.Clear)
	users.GET("/wishlist", d.Wishlist.Get)
	users.POST("/wishlist/:productId", d.Wishlist.Add)
	users.DELETE("/wishlist/:productId", d.Wishlist.Remove)
	users.GET("/profile", d.AuthH.Me)
	users.GET("/my-products", d.Products.MyProducts)

	orders := api.Group("/orders")
	orders.POST("/razorpay-webhook", d.Orders.PaymentWebhook)
	orders.POST("/payment-webhook", d.Orders.PaymentWebhook)
	orders.POST("", d.Orders.Create, requireUser...)
	orders.GET("", d.Orders.List, requireUser...)
	orders.GET("/:id", d.Orders.Get, requireUser...)
	orders.POST("/:id/cancel", d.Orders.Cancel, requireUser...)
	orders.PUT("/:id/status", d.Orders.UpdateStatus, requireAdmin...)

	admin := api.Group("/admin", requireAdmin...)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/users", d.Admin.Users)
	admin.PUT("/users/:id", d.Admin.SetUserStatus)
	admin.PUT("/users/:id/status", d.Admin.SetUserStatus)
	admin.GET("/products/pending", d.Admin.Pending)
	admin.POST("/products/:id/approve", d.Admin.Approve)
	admin.POST("/products/:id/reject", d.Admin.Reject)
	admin.PUT("/products/:id/approve", d.Admin.Approve)
	admin.PUT("/products/:id/reject", d.Admin.Reject)
	admin.GET("/orders", d.Admin.Orders)
	admin.POST("/categories", d.Admin.CreateCategory)
	admin.PUT("/categories/:id", d.Admin.UpdateCategory)
	admin.DELETE("/categories/:id", d.Admin.DeleteCategory)
}
