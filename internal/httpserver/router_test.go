package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/service"
	"github.com/Skotchmaster/phone_market/internal/util"
	"github.com/Skotchmaster/phone_market/pkg/db"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/hash"
	jwthelp "github.com/Skotchmaster/phone_market/pkg/jwt"
	"github.com/Skotchmaster/phone_market/pkg/middleware/auth"
	"github.com/Skotchmaster/phone_market/pkg/tokens"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testWebhookSecret = []byte("whsec_test")
)

type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	events *events.Recorder
}

type response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
	Pagination *util.Pagination  `json:"pagination"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "market.db") + "?_pragma=busy_timeout(5000)"
	gdb, err := db.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))

	rec := &events.Recorder{}
	authSvc := &service.AuthService{Repo: r, JWTSecret: testJWTSecret, AccessTTL: time.Hour}
	orders := &service.OrderService{Repo: r, Events: rec, OrdersTopic: "order_events"}

	e := echo.New()
	Register(e, &Deps{
		Auth:     auth.New(testJWTSecret, authSvc.IsActive),
		Ready:    r.Ping,
		AuthH:    &AuthHTTP{Svc: authSvc},
		Products: &ProductHTTP{Svc: &service.CatalogService{Repo: r, Events: rec, ProductsTopic: "product_events"}},
		Cart:     &CartHTTP{Svc: &service.CartService{Repo: r}},
		Wishlist: &WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		Orders: &OrderHTTP{
			Svc:      orders,
			Payments: &service.PaymentService{Repo: r, Secret: testWebhookSecret, Events: rec, OrdersTopic: "order_events"},
		},
		Admin: &AdminHTTP{Svc: &service.AdminService{Repo: r, Events: rec, ProductsTopic: "product_events"}},
	})
	return &testServer{e: e, repo: r, events: rec}
}

func (s *testServer) raw(t *testing.T, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if len(body) > 0 {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// call sends body as JSON with an optional bearer token and decodes the envelope.
func (s *testServer) call(t *testing.T, method, path, token string, body any) (int, response) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	headers := map[string]string{}
	if token != "" {
		headers[echo.HeaderAuthorization] = "Bearer " + token
	}
	rec := s.raw(t, method, path, payload, headers)

	var out response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) user(t *testing.T, role string) (models.User, string) {
	t.Helper()
	pw, err := hash.HashPassword("secret1")
	require.NoError(t, err)
	u := models.User{
		Name:         "Test " + role,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: pw,
		Role:         role,
		IsActive:     true,
	}
	created, err := s.repo.CreateUserIfNotExists(context.Background(), &u)
	require.NoError(t, err)
	require.True(t, created)

	token, err := tokens.NewAccessToken(testJWTSecret, u.ID.String(), u.Role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return u, token
}

func (s *testServer) category(t *testing.T) models.Category {
	t.Helper()
	c := models.Category{Name: "Smartphones", IsActive: true}
	require.NoError(t, s.repo.CreateCategory(context.Background(), &c))
	return c
}

func (s *testServer) product(t *testing.T, categoryID uuid.UUID, mutate func(p *models.Product)) models.Product {
	t.Helper()
	p := models.Product{
		Name:        "Galaxy S23",
		Brand:       "Samsung",
		Model:       "S23",
		Description: "Like new, boxed",
		Price:       1000,
		CategoryID:  categoryID,
		Condition:   domain.ConditionLikeNew,
		Storage:     domain.Storage256GB,
		Images:      []string{"https://img.example.com/s23.jpg"},
		Stock:       3,
		IsActive:    true,
		IsApproved:  true,
	}
	if mutate != nil {
		mutate(&p)
	}
	require.NoError(t, s.repo.CreateProduct(context.Background(), &p))
	return p
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func listingBody(categoryID uuid.UUID) map[string]any {
	return map[string]any{
		"name":        "iPhone 13",
		"brand":       "Apple",
		"model":       "A2633",
		"description": "Minor scratches on the frame",
		"price":       450,
		"category":    categoryID.String(),
		"condition":   "good",
		"storage":     "128GB",
		"images":      []string{"https://img.example.com/ip13.jpg"},
	}
}

func checkoutBody(method string, productID uuid.UUID, qty int) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"product": productID.String(), "quantity": qty}},
		"shippingAddress": map[string]any{
			"name":    "Ada Lovelace",
			"phone":   "+44 20 7946 0958",
			"street":  "12 St James's Square",
			"city":    "London",
			"state":   "London",
			"zipCode": "SW1Y 4JH",
		},
		"paymentMethod": method,
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.raw(t, http.MethodGet, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, s.raw(t, http.MethodGet, "/health/ready", nil, nil).Code)

	code, res := s.call(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	reg := map[string]any{"name": "Ada", "email": "ada@example.com", "password": "secret1"}

	code, res := s.call(t, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, code, res.Message)
	assert.True(t, res.Success)
	u := decode[models.User](t, res.Data)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotContains(t, string(res.Data), "secret1")

	code, _ = s.call(t, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, code)

	code, res = s.call(t, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Bob", "email": "nope", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", res.Message)
	assert.Contains(t, res.Errors, "email")
	assert.Contains(t, res.Errors, "password")

	code, _ = s.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ada@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	body, err := json.Marshal(map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.NoError(t, err)
	rec := s.raw(t, http.MethodPost, "/api/auth/login", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Data service.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwthelp.AccessCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	code, res = s.call(t, http.MethodGet, "/api/auth/me", login.Data.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, u.ID, decode[models.User](t, res.Data).ID)

	rec = s.raw(t, http.MethodGet, "/api/users/profile", nil, map[string]string{"Cookie": cookie.Name + "=" + cookie.Value})
	assert.Equal(t, http.StatusOK, rec.Code)

	code, res = s.call(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, res.Success)
}

func TestAccessControl(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, userToken := s.user(t, domain.RoleUser)
	gone, goneToken := s.user(t, domain.RoleUser)
	_, err := (&service.AdminService{Repo: s.repo}).SetUserActive(context.Background(), gone.ID, false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "cart needs login", method: http.MethodGet, path: "/api/users/cart", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/users/cart", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "deactivated account", method: http.MethodGet, path: "/api/users/cart", token: goneToken, want: http.StatusUnauthorized},
		{name: "dashboard needs admin", method: http.MethodGet, path: "/api/admin/dashboard", token: userToken, want: http.StatusForbidden},
		{name: "status update needs admin", method: http.MethodPut, path: "/api/orders/" + uuid.NewString() + "/status", token: userToken, want: http.StatusForbidden},
		{name: "admin listing needs admin", method: http.MethodPost, path: "/api/products", token: userToken, want: http.StatusForbidden},
		{name: "user reaches cart", method: http.MethodGet, path: "/api/users/cart", token: userToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			code, res := s.call(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, code < 400, res.Success)
		})
	}
}

func TestProductListing(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, adminToken := s.user(t, domain.RoleAdmin)
	cat := s.category(t)
	visible := s.product(t, cat.ID, nil)
	hidden := s.product(t, cat.ID, func(p *models.Product) { p.IsApproved = false })

	code, res := s.call(t, http.MethodGet, "/api/products?limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	items := decode[[]models.Product](t, res.Data)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
	require.NotNil(t, res.Pagination)
	assert.EqualValues(t, 1, res.Pagination.TotalCount)
	assert.Equal(t, 1, res.Pagination.CurrentPage)

	bad := []struct {
		name  string
		query string
		field string
	}{
		{name: "price not a number", query: "minPrice=cheap", field: "minPrice"},
		{name: "unknown condition", query: "condition=broken", field: "condition"},
		{name: "unknown sort", query: "sort=random", field: "sort"},
		{name: "category not an id", query: "category=phones", field: "category"},
	}
	for _, tt := range bad {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			code, res := s.call(t, http.MethodGet, "/api/products?"+tt.query, "", nil)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, res.Errors, tt.field)
		})
	}

	code, _ = s.call(t, http.MethodGet, "/api/products/"+hidden.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.call(t, http.MethodGet, "/api/products/"+hidden.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, res = s.call(t, http.MethodGet, "/api/products/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Errors, "product")

	code, res = s.call(t, http.MethodGet, "/api/products/brands/all", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Samsung"}, decode[[]string](t, res.Data))

	code, res = s.call(t, http.MethodGet, "/api/products/search?q=galaxy", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Product](t, res.Data), 1)
	code, _ = s.call(t, http.MethodGet, "/api/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckoutFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, token := s.user(t, domain.RoleUser)
	cat := s.category(t)
	p := s.product(t, cat.ID, nil)
	cartPath := "/api/users/cart/" + p.ID.String()

	code, res := s.call(t, http.MethodPost, cartPath, token, map[string]any{"quantity": 11})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Errors, "quantity")

	code, res = s.call(t, http.MethodPost, cartPath, token, nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	code, res = s.call(t, http.MethodPost, cartPath, token, map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, code, res.Message)
	view := decode[service.CartView](t, res.Data)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity, "increments clamp to stock")
	assert.Equal(t, domain.PriceSummary{Subtotal: 3000, Tax: 540, Shipping: 0, Total: 3540}, view.Summary)

	code, res = s.call(t, http.MethodPut, cartPath, token, map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, decode[service.CartView](t, res.Data).Items[0].Quantity)

	code, res = s.call(t, http.MethodPost, "/api/orders", token, checkoutBody("cod", p.ID, 4))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Message, "insufficient stock")

	code, res = s.call(t, http.MethodPost, "/api/orders", token, map[string]any{"items": []any{}, "paymentMethod": "cash"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Errors, "paymentMethod")
	assert.Contains(t, res.Errors, "shippingAddress")
	assert.Contains(t, res.Errors, "items")

	code, res = s.call(t, http.MethodPost, "/api/orders", token, checkoutBody("cod", p.ID, 1))
	require.Equal(t, http.StatusCreated, code, res.Message)
	order := decode[models.Order](t, res.Data)
	assert.EqualValues(t, 1180, order.TotalAmount)
	assert.Equal(t, domain.OrderPending, order.OrderStatus)

	code, res = s.call(t, http.MethodGet, "/api/users/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[service.CartView](t, res.Data).Items)

	code, res = s.call(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Order](t, res.Data), 1)

	_, otherToken := s.user(t, domain.RoleUser)
	code, _ = s.call(t, http.MethodGet, "/api/orders/"+order.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, res = s.call(t, http.MethodPost, "/api/orders/"+order.ID.String()+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, domain.OrderCancelled, decode[models.Order](t, res.Data).OrderStatus)
	code, _ = s.call(t, http.MethodPost, "/api/orders/"+order.ID.String()+"/cancel", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	stored, err := s.repo.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)
}

func TestPaymentWebhook(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, token := s.user(t, domain.RoleUser)
	cat := s.category(t)
	p := s.product(t, cat.ID, nil)

	code, res := s.call(t, http.MethodPost, "/api/orders", token, checkoutBody("gateway", p.ID, 1))
	require.Equal(t, http.StatusCreated, code, res.Message)
	order := decode[models.Order](t, res.Data)
	require.NotNil(t, order.ExternalID)

	body, err := json.Marshal(map[string]any{
		"event": service.EventPaymentCaptured,
		"payload": map[string]any{"payment": map[string]any{"entity": map[string]any{
			"id":    "pay_99",
			"notes": map[string]string{"orderId": *order.ExternalID},
		}}},
	})
	require.NoError(t, err)

	rec := s.raw(t, http.MethodPost, "/api/orders/payment-webhook", body, map[string]string{SignatureHeader: "deadbeef"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sig := service.Sign(testWebhookSecret, body)
	for i := 0; i < 2; i++ {
		rec = s.raw(t, http.MethodPost, "/api/orders/payment-webhook", body, map[string]string{SignatureHeader: sig})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"success":true,"message":"Webhook processed"}`, rec.Body.String())
	}

	code, res = s.call(t, http.MethodGet, "/api/orders/"+order.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, code)
	paid := decode[models.Order](t, res.Data)
	assert.Equal(t, domain.OrderConfirmed, paid.OrderStatus)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "pay_99", paid.PaymentID)
	assert.Equal(t, []string{"order_created", "order_paid"}, s.events.Types())
}

func TestModerationFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, sellerToken := s.user(t, domain.RoleUser)
	_, adminToken := s.user(t, domain.RoleAdmin)
	cat := s.category(t)

	code, res := s.call(t, http.MethodPost, "/api/products/sell", sellerToken, listingBody(cat.ID))
	require.Equal(t, http.StatusCreated, code, res.Message)
	assert.Equal(t, "Product submitted for approval", res.Message)
	listing := decode[models.Product](t, res.Data)
	assert.False(t, listing.IsApproved)
	productPath := "/api/admin/products/" + listing.ID.String()

	code, res = s.call(t, http.MethodGet, "/api/users/my-products", sellerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Product](t, res.Data), 1)

	code, res = s.call(t, http.MethodPut, productPath+"/reject", adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Errors, "reason")

	code, res = s.call(t, http.MethodPut, productPath+"/reject", adminToken, map[string]any{"reason": "Photos do not match the model"})
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, "Photos do not match the model", decode[models.Product](t, res.Data).RejectionReason)

	code, res = s.call(t, http.MethodGet, "/api/admin/products/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Product](t, res.Data), 1)

	code, _ = s.call(t, http.MethodPut, productPath+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, res = s.call(t, http.MethodPut, "/api/products/"+listing.ID.String(), sellerToken, map[string]any{"price": 1})
	assert.Equal(t, http.StatusForbidden, code, res.Message)

	code, res = s.call(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Product](t, res.Data), 1)

	code, res = s.call(t, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	d := decode[service.Dashboard](t, res.Data)
	assert.EqualValues(t, 1, d.TotalProducts)
	assert.EqualValues(t, 0, d.PendingProducts)
}

func TestAdminCategories(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, adminToken := s.user(t, domain.RoleAdmin)

	code, res := s.call(t, http.MethodPost, "/api/admin/categories", adminToken, map[string]any{"name": "Smartphones"})
	require.Equal(t, http.StatusCreated, code, res.Message)
	cat := decode[models.Category](t, res.Data)
	assert.True(t, cat.IsActive)

	code, _ = s.call(t, http.MethodPost, "/api/admin/categories", adminToken, map[string]any{"name": "smartphones"})
	assert.Equal(t, http.StatusConflict, code)

	code, res = s.call(t, http.MethodPut, "/api/admin/categories/"+cat.ID.String(), adminToken, map[string]any{"sortOrder": 3})
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, 3, decode[models.Category](t, res.Data).SortOrder)

	s.product(t, cat.ID, nil)
	code, _ = s.call(t, http.MethodDelete, "/api/admin/categories/"+cat.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, res = s.call(t, http.MethodGet, "/api/products/categories/all", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Category](t, res.Data), 1)
}

func TestCookieSessionNeedsCSRFToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	_, token := s.user(t, domain.RoleUser)
	p := s.product(t, s.category(t).ID, nil)
	path := "/api/users/wishlist/" + p.ID.String()
	session := jwthelp.AccessCookie + "=" + token

	rec := s.raw(t, http.MethodPost, path, nil, map[string]string{"Cookie": session})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.raw(t, http.MethodPost, path, nil, map[string]string{
		"Cookie":       session + "; XSRF-TOKEN=tok123",
		"X-CSRF-Token": "tok123",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	code, res := s.call(t, http.MethodGet, "/api/users/wishlist", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Product](t, res.Data), 1)
}

func TestStorefrontRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	seller, sellerToken := s.user(t, domain.RoleUser)
	buyer, buyerToken := s.user(t, domain.RoleUser)
	_, adminToken := s.user(t, domain.RoleAdmin)
	cat := s.category(t)

	code, res := s.call(t, http.MethodPost, "/api/products/sell", sellerToken, listingBody(cat.ID))
	require.Equal(t, http.StatusCreated, code, res.Message)
	listing := decode[models.Product](t, res.Data)
	productPath := "/api/admin/products/" + listing.ID.String()

	code, res = s.call(t, http.MethodPost, productPath+"/reject", adminToken, map[string]any{"reason": "Blurry photos"})
	require.Equal(t, http.StatusOK, code, res.Message)
	code, res = s.call(t, http.MethodPost, productPath+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.True(t, decode[models.Product](t, res.Data).IsApproved)

	code, res = s.call(t, http.MethodGet, "/api/products/"+listing.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	product := decode[map[string]any](t, res.Data)
	assert.Equal(t, seller.Name, product["seller"].(map[string]any)["name"])
	assert.Equal(t, "Smartphones", product["category"].(map[string]any)["name"])

	code, res = s.call(t, http.MethodPost, "/api/orders", buyerToken, map[string]any{
		"items":           []map[string]any{{"product": listing.ID.String(), "quantity": 1 << 62}, {"product": listing.ID.String(), "quantity": 1 << 62}},
		"shippingAddress": checkoutBody("cod", listing.ID, 1)["shippingAddress"],
		"paymentMethod":   "cod",
	})
	assert.Equal(t, http.StatusBadRequest, code, res.Message)

	code, res = s.call(t, http.MethodPost, "/api/orders", buyerToken, checkoutBody("razorpay", listing.ID, 1))
	require.Equal(t, http.StatusCreated, code, res.Message)
	order := decode[models.Order](t, res.Data)
	assert.Equal(t, domain.PaymentGateway, order.PaymentMethod)
	require.NotNil(t, order.ExternalID)
	require.NotNil(t, order.User)
	assert.Equal(t, buyer.Email, order.User.Email)

	body, err := json.Marshal(map[string]any{
		"event": service.EventPaymentCaptured,
		"payload": map[string]any{"payment": map[string]any{"entity": map[string]any{
			"id":    "pay_7",
			"notes": map[string]string{"orderId": *order.ExternalID},
		}}},
	})
	require.NoError(t, err)
	rec := s.raw(t, http.MethodPost, "/api/orders/razorpay-webhook", body, map[string]string{SignatureHeader: service.Sign(testWebhookSecret, body)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	code, res = s.call(t, http.MethodGet, "/api/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, code, res.Message)
	listed := decode[[]models.Order](t, res.Data)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].User)
	assert.Equal(t, buyer.Name, listed[0].User.Name)
	assert.Equal(t, domain.OrderConfirmed, listed[0].OrderStatus)

	code, res = s.call(t, http.MethodPut, "/api/admin/users/"+buyer.ID.String(), adminToken, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.False(t, decode[models.User](t, res.Data).IsActive)
	code, _ = s.call(t, http.MethodGet, "/api/orders", buyerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
