package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/configs"
	"github.com/Rakhulsr/go-foodie/app/db/testdb"
	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/Rakhulsr/go-foodie/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubGateway struct{}

func (stubGateway) Name() string { return "stub" }

func (stubGateway) CreateSession(_ context.Context, req services.SessionRequest) (*services.Session, error) {
	return &services.Session{RedirectURL: "https://pay.example.com/" + req.TransactionID}, nil
}

type stubVerifier struct {
	outcome services.PaymentOutcome
}

func (v stubVerifier) VerifyTransaction(context.Context, string) (services.PaymentOutcome, error) {
	return v.outcome, nil
}

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	auth    *services.AuthService
	food    *models.FoodItem
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithVerifier(t, nil)
}

func newTestServerWithVerifier(t *testing.T, verifier services.TransactionVerifier) *testServer {
	t.Helper()
	db := testdb.Open(t)
	env := configs.ENV{
		AppEnv:          "test",
		AppURL:          "http://api.test",
		JWTSecret:       "test-secret",
		StorefrontOrder: "http://store.test/orders",
		PaymentCurrency: "BDT",
	}

	store := sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	handler := NewRouter(db, env, Options{
		Gateway:      stubGateway{},
		Verifier:     verifier,
		SessionStore: store,
		TemplatesDir: "../../templates",
	})

	category := &models.Category{Name: "Burgers", Slug: "burgers"}
	require.NoError(t, db.Create(category).Error)
	food := &models.FoodItem{CategoryID: category.ID, Name: "Burger", Price: decimal.RequireFromString("5.00"), IsSpecial: true}
	require.NoError(t, db.Create(food).Error)

	return &testServer{
		handler: handler,
		db:      db,
		auth:    services.NewAuthService(repositories.NewUserRepository(db), env.JWTSecret, 0),
		food:    food,
	}
}

func (s *testServer) token(t *testing.T, username, role string) string {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "secret-password", Role: role}
	require.NoError(t, repositories.NewUserRepository(s.db).Create(context.Background(), user))
	token, _, err := s.auth.IssueToken(user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestPublicCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/categories/burgers/food-items", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.FoodItem
	decode(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Name)

	rec = s.do(t, http.MethodGet, "/api/categories/pizza/food-items", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/specials", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body helpers.ErrorBody
	decode(t, rec, &body)
	assert.Equal(t, "not_found", string(body.Error))
}

func TestProtectedRoutesNeedUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/cart", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := s.token(t, "alice", models.RoleCustomer)
	rec = s.do(t, http.MethodGet, "/api/admin/orders", customer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.token(t, "root", models.RoleAdmin)
	rec = s.do(t, http.MethodGet, "/api/admin/orders", admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartAndOrderFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "alice", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/cart", token, `{"food_item_id":"`+s.food.ID+`","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/cart", token, `{"food_item_id":"","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid helpers.ErrorBody
	decode(t, rec, &invalid)
	assert.Contains(t, invalid.Fields, "food_item_id")

	rec = s.do(t, http.MethodGet, "/api/cart/count", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/checkout", token, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID         string `json:"id"`
		Customer   string `json:"customer"`
		TotalPrice string `json:"total_price"`
		Status     string `json:"status"`
	}
	decode(t, rec, &order)
	assert.Equal(t, "alice", order.Customer)
	assert.Equal(t, "10", order.TotalPrice)
	assert.Equal(t, "Pending", order.Status)

	rec = s.do(t, http.MethodPost, "/api/checkout", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	other := s.token(t, "bob", models.RoleCustomer)
	rec = s.do(t, http.MethodGet, "/api/orders/"+order.ID, other, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/orders/"+order.ID, token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminUpdateOrder(t *testing.T) {
	s := newTestServer(t)
	customer := s.token(t, "alice", models.RoleCustomer)
	admin := s.token(t, "root", models.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/orders", customer, `{"items":[{"food_item":"`+s.food.ID+`","quantity":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID string `json:"id"`
	}
	decode(t, rec, &order)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID, admin, `{"estimated_delivery_time":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body helpers.ErrorBody
	decode(t, rec, &body)
	assert.Equal(t, `Invalid datetime format. Use "YYYY-MM-DDTHH:MM:SSZ".`, body.Message)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID, admin, `{"status":"Delivered"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/admin/orders/"+order.ID, admin, `{"status":"Processing"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Status string `json:"status"`
	}
	decode(t, rec, &updated)
	assert.Equal(t, "Processing", updated.Status)
}

func TestPaymentCallbacks(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "alice", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/cart", token, `{"food_item_id":"`+s.food.ID+`","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/payment/create", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payment struct {
		URL           string `json:"url"`
		OrderID       string `json:"order_id"`
		TransactionID string `json:"transaction_id"`
		Amount        string `json:"amount"`
	}
	decode(t, rec, &payment)
	assert.Equal(t, "https://pay.example.com/"+payment.TransactionID, payment.URL)
	assert.Equal(t, "5.00", payment.Amount)

	query := "?tran_id=" + payment.TransactionID + "&order_id=" + payment.OrderID

	rec = s.do(t, http.MethodGet, "/payment/success/"+query, "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://store.test/orders", rec.Header().Get("Location"))

	var stored models.Order
	require.NoError(t, s.db.First(&stored, "id = ?", payment.OrderID).Error)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)

	rec = s.do(t, http.MethodPost, "/payment/fail"+query, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment failed")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = s.do(t, http.MethodGet, "/payment/cancel/?order_id=missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestPendingFinishRedirectKeepsOrderPending(t *testing.T) {
	s := newTestServerWithVerifier(t, stubVerifier{outcome: services.OutcomePending})
	token := s.token(t, "alice", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/cart", token, `{"food_item_id":"`+s.food.ID+`","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/payment/create", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payment struct {
		OrderID       string `json:"order_id"`
		TransactionID string `json:"transaction_id"`
	}
	decode(t, rec, &payment)

	// Snap appends its own order_id and status to the finish URL
	query := "?tran_id=" + payment.TransactionID + "&order_id=" + payment.OrderID +
		"&order_id=" + payment.TransactionID + "&status_code=201&transaction_status=pending"
	rec = s.do(t, http.MethodGet, "/payment/success/"+query, "", "")
	assert.Equal(t, http.StatusFound, rec.Code)

	var stored models.Order
	require.NoError(t, s.db.First(&stored, "id = ?", payment.OrderID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	s.token(t, "alice", models.RoleCustomer)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"secret-password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	assert.NotEmpty(t, login.Token)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	var user models.User
	decode(t, me, &user)
	assert.Equal(t, "alice", user.Username)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
