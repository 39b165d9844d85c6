package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{}))
	handler := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/thing", handler)
	e.POST("/thing", handler)
	return e
}

func TestMiddleware_IssuesToken(t *testing.T) {
	t.Parallel()

	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thing", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "XSRF-TOKEN" {
			issued = c
		}
	}
	require.NotNil(t, issued)
	assert.False(t, issued.HttpOnly)
	assert.NotEmpty(t, issued.Value)
}

func TestMiddleware_UnsafeRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cookies string
		headers map[string]string
		want    int
	}{
		{name: "no session", want: http.StatusNoContent},
		{name: "bearer client", cookies: "accessToken=jwt", headers: map[string]string{echo.HeaderAuthorization: "Bearer jwt"}, want: http.StatusNoContent},
		{name: "cookie session without token", cookies: "accessToken=jwt; XSRF-TOKEN=abc", want: http.StatusForbidden},
		{name: "cookie session with wrong token", cookies: "accessToken=jwt; XSRF-TOKEN=abc", headers: map[string]string{"X-CSRF-Token": "abd"}, want: http.StatusForbidden},
		{name: "cookie session with token", cookies: "accessToken=jwt; XSRF-TOKEN=abc", headers: map[string]string{"X-CSRF-Token": "abc"}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/thing", nil)
			if tt.cookies != "" {
				req.Header.Set("Cookie", tt.cookies)
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			newServer().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
