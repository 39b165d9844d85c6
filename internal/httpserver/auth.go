package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/transport"
	jwthelp "github.com/Skotchmaster/phone_market/pkg/jwt"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "register_error", err)
	}

	u, err := h.Svc.Register(ctx, req)
	if err != nil {
		return serviceError(c, l, "register_error", err)
	}
	l.Info("user_registered", "user_id", u.ID)
	return ok(c, http.StatusCreated, "User registered successfully", u)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return serviceError(c, l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return serviceError(c, l, "login_error", err)
	}

	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.Token, "/", res.ExpiresAt))
	l.Info("user_logged_in", "user_id", res.User.ID)
	return ok(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	return ok(c, http.StatusOK, "Logged out", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "me")

	u, err := h.Svc.Me(ctx, actor(c))
	if err != nil {
		return serviceError(c, l, "me_error", err)
	}
	return ok(c, http.StatusOK, "", u)
}
