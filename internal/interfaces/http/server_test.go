package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/infrastructure/database/postgres"
	"github.com/your-org/ventilation-store/internal/pkg/auth"
	"github.com/your-org/ventilation-store/internal/pkg/logger"
	"github.com/your-org/ventilation-store/internal/testutil"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
	jwt     *auth.JWTManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	db := testutil.NewDB(t, postgres.Models()...)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "test", Environment: "test"},
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		JWT:      config.JWTConfig{Secret: testSecret},
		Security: config.SecurityConfig{RateLimitPerMinute: 1000},
		Store:    config.StoreConfig{CartTTL: time.Hour, ProfileTTL: time.Minute},
	}

	srv := NewServer(cfg, db, rdb, logger.Discard())
	return &harness{t: t, db: db, handler: srv.Handler(), jwt: auth.NewJWTManager(cfg)}
}

func (h *harness) token(userID uuid.UUID, role string) string {
	token, err := h.jwt.GenerateAccessToken(userID, "ana@example.com", role, time.Hour)
	require.NoError(h.t, err)
	return token
}

func (h *harness) do(method, path, session, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (h *harness) stock(id uint) int {
	var p product.Product
	require.NoError(h.t, h.db.First(&p, id).Error)
	return p.Stock
}

func data(body map[string]interface{}) map[string]interface{} {
	d, _ := body["data"].(map[string]interface{})
	return d
}

func shippingForm() map[string]interface{} {
	return map[string]interface{}{
		"full_name":      "Ana Torres",
		"address":        "Av. Arequipa 1234",
		"city":           "Lima",
		"postal_code":    "15046",
		"phone":          "987654321",
		"email":          "ana@example.com",
		"payment_method": "paypal",
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w, body := h.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCartToCancelledOrder(t *testing.T) {
	h := newHarness(t)
	fan := product.Product{Name: "Ceiling fan", Category: "Fans", Model: "CF", Brand: "Aero", Price: decimal.NewFromInt(100), Stock: 2}
	require.NoError(t, h.db.Create(&fan).Error)

	session := uuid.NewString()
	customer := h.token(uuid.New(), "customer")

	w, body := h.do(http.MethodPost, "/api/v1/cart/items", session, "", gin.H{"product_id": fan.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "200.00", data(body)["total_display"])

	w, body = h.do(http.MethodPost, "/api/v1/cart/items", session, "", gin.H{"product_id": fan.ID, "quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotNil(t, body["details"])

	_, body = h.do(http.MethodGet, "/api/v1/cart/count", session, "", nil)
	assert.Equal(t, float64(2), data(body)["count"])

	w, _ = h.do(http.MethodPost, "/api/v1/checkout", session, "", shippingForm())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = h.do(http.MethodPost, "/api/v1/checkout", session, customer, shippingForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := data(body)
	assert.Equal(t, "pending", placed["status"])
	assert.Equal(t, 0, h.stock(fan.ID))

	_, body = h.do(http.MethodGet, "/api/v1/cart/count", session, "", nil)
	assert.Equal(t, float64(0), data(body)["count"])

	orderPath := fmt.Sprintf("/api/v1/orders/%v", placed["id"])

	w, body = h.do(http.MethodGet, "/api/v1/orders?status=pending", "", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data(body)["orders"], 1)

	w, _ = h.do(http.MethodGet, "/api/v1/orders?status=bogus", "", customer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(http.MethodGet, orderPath, "", h.token(uuid.New(), "customer"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = h.do(http.MethodPut, orderPath+"/cancel", "", customer, gin.H{"reason": "changed my mind"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", data(body)["status"])
	assert.Equal(t, 2, h.stock(fan.ID))

	w, _ = h.do(http.MethodPut, orderPath+"/cancel", "", customer, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutValidationFailure(t *testing.T) {
	h := newHarness(t)

	form := shippingForm()
	form["email"] = "not-an-email"
	form["payment_method"] = "credit"

	w, body := h.do(http.MethodPost, "/api/v1/checkout", uuid.NewString(), h.token(uuid.New(), "customer"), form)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	fields, _ := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "card_number")
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newHarness(t)

	w, _ := h.do(http.MethodPost, "/api/v1/checkout", uuid.NewString(), h.token(uuid.New(), "customer"), shippingForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h := newHarness(t)

	w, _ := h.do(http.MethodGet, "/api/v1/admin/dashboard", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = h.do(http.MethodGet, "/api/v1/admin/dashboard", "", h.token(uuid.New(), "customer"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := h.token(uuid.New(), auth.RoleAdmin)
	w, body := h.do(http.MethodPost, "/api/v1/admin/products", "", admin, gin.H{
		"name": "Bathroom extractor", "category": "Extractors", "model": "BX", "brand": "Airflow",
		"price": "350.00", "stock": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Bathroom extractor", data(body)["name"])

	created := data(body)
	w, body = h.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/products/%v/movements", created["id"]), "", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, body = h.do(http.MethodGet, "/api/v1/admin/dashboard", "", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), data(body)["total_products"])

	w, _ = h.do(http.MethodPut, "/api/v1/admin/orders/99/status", "", admin, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(http.MethodPut, "/api/v1/admin/orders/99/status", "", admin, gin.H{"status": "all"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	h := newHarness(t)
	token := h.token(uuid.New(), "customer")

	w, body := h.do(http.MethodGet, "/api/v1/profile", "", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", data(body)["email"])

	w, body = h.do(http.MethodPut, "/api/v1/profile", "", token, gin.H{
		"first_names": "Ana", "last_names": "Torres", "national_id": "12345678",
		"birth_date": "1990-05-01", "phone": "987654321", "email": "ana@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ana", data(body)["first_names"])

	w, body = h.do(http.MethodPut, "/api/v1/profile", "", token, gin.H{"first_names": "4n4"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotNil(t, body["fields"])
}
