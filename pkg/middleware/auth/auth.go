package auth

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/phone_market/pkg/jwt"
	"github.com/Skotchmaster/phone_market/pkg/logging"
	"github.com/Skotchmaster/phone_market/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	RoleAdmin = "admin"
)

// ActiveFunc reports whether the account behind a token may still act.
type ActiveFunc func(ctx context.Context, userID string) (bool, error)

type Middleware struct {
	RequireAuth  echo.MiddlewareFunc
	OptionalAuth echo.MiddlewareFunc

	active ActiveFunc
}

func New(secret []byte, active ActiveFunc) *Middleware {
	m := &Middleware{active: active}
	m.RequireAuth = echojwt.WithConfig(m.config(secret, false))
	m.OptionalAuth = echojwt.WithConfig(m.config(secret, true))
	return m
}

func (m *Middleware) config(secret []byte, optional bool) echojwt.Config {
	return echojwt.Config{
		SigningKey:    secret,
		SigningMethod: "HS256",
		ContextKey:    "user",
		TokenLookup:   "header:Authorization:Bearer ,cookie:" + jwthelp.AccessCookie,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		SuccessHandler: func(c echo.Context) {
			tkn, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := tkn.Claims.(*tokens.AccessClaims)
			if !ok {
				return
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
		},
		ContinueOnIgnoredError: optional,
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			logging.FromContext(c.Request().Context()).
				Warn("auth_failed", "status", 401, "reason", "missing or invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		},
	}
}

// RequireActive rejects tokens whose account has been deactivated since login.
func (m *Middleware) RequireActive(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.active == nil {
			return next(c)
		}
		userID, _ := c.Get(CtxUserID).(string)
		if userID == "" {
			return next(c)
		}
		ctx := c.Request().Context()
		ok, err := m.active(ctx, userID)
		if err != nil {
			logging.FromContext(ctx).Error("auth_failed", "status", 500, "reason", "cannot load account", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
		if !ok {
			logging.FromContext(ctx).Warn("auth_failed", "status", 401, "reason", "account inactive", "user_id", userID)
			return echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
		}
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(CtxRole).(string)
		if role != RoleAdmin {
			logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 403, "reason", "admin role required", "role", role)
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}
