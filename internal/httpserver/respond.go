package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/internal/util"
	"github.com/Skotchmaster/phone_market/pkg/logging"
	"github.com/Skotchmaster/phone_market/pkg/middleware/auth"
)

type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *util.Pagination  `json:"pagination,omitempty"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func paged(c echo.Context, data any, p util.Pagination) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &p})
}

func fail(c echo.Context, status int, message string, errs map[string]string) error {
	return c.JSON(status, envelope{Success: false, Message: message, Errors: errs})
}

// classify maps a service error to a status and a client-safe message.
func classify(err error) (int, string, map[string]string) {
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest, "Validation failed", fe
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error(), nil
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error(), nil
	default:
		return http.StatusInternalServerError, "Server error", nil
	}
}

// serviceError logs err under event and writes the error envelope.
func serviceError(c echo.Context, l *slog.Logger, event string, err error) error {
	status, message, fields := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", message, "error", err)
	}
	return fail(c, status, message, fields)
}

// errorHandler renders framework errors (unknown routes, auth, panics) in the
// same envelope as handler errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := http.StatusInternalServerError, "Server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, isString := he.Message.(string); isString {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
		message = "Server error"
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = fail(c, status, message, nil)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

type requestValidator struct{}

func (requestValidator) Validate(i any) error { return transport.Validate(i) }

// bind decodes the body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.FieldErrors{"body": "Invalid request body"}
	}
	return c.Validate(req)
}

// actor is the caller as established by the auth middleware.
func actor(c echo.Context) domain.Actor {
	raw, _ := c.Get(auth.CtxUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.Anonymous
	}
	role, _ := c.Get(auth.CtxRole).(string)
	return domain.Actor{UserID: id, Role: role}
}

func pathID(c echo.Context, name, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.FieldErrors{field: "Invalid " + field + " ID"}
	}
	return id, nil
}

func pageParams(c echo.Context) (int, int) {
	return util.ParseIntDefault(c.QueryParam("page"), 1), util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
}

func optionalInt64(c echo.Context, name string, fe domain.FieldErrors) *int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fe.Add(name, name+" must be a whole number")
		return nil
	}
	return &v
}
