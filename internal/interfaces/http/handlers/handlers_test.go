package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/domain/cart"
	"github.com/your-org/ventilation-store/internal/domain/checkout"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/review"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"github.com/your-org/ventilation-store/internal/pkg/logger"
	"github.com/your-org/ventilation-store/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &validation.Errors{Fields: map[string]string{"email": "Invalid email"}}, http.StatusUnprocessableEntity},
		{"stock", &cart.StockError{ProductID: 1, Requested: 3, Available: 2}, http.StatusConflict},
		{"wrapped not found", fmt.Errorf("lookup: %w", product.ErrProductNotFound), http.StatusNotFound},
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest},
		{"transition", order.ErrInvalidStatusTransition, http.StatusConflict},
		{"not owner", review.ErrNotOwner, http.StatusForbidden},
		{"backend", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, logger.Discard(), tc.err)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestRespondError_HidesBackendDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, logger.Discard(), errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSessionID(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, sessionID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := w.Body.String()
	require.NotEmpty(t, issued)
	assert.Equal(t, issued, w.Header().Get(sessionHeader))
	assert.Contains(t, w.Header().Get("Set-Cookie"), sessionCookie+"="+issued)

	fromCookie := uuid.NewString()
	fromHeader := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: fromCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, fromCookie, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionHeader, fromHeader)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: fromCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, fromHeader, w.Body.String())
}

func TestSessionID_RejectsMalformedValues(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, sessionID(c)) })

	fromCookie := uuid.NewString()
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"free-form header falls back to cookie", "from-header", fromCookie, fromCookie},
		{"oversized header", strings.Repeat("a", 4096), "", ""},
		{"braced uuid header", "{" + fromCookie + "}", "", ""},
		{"free-form cookie", "", "from-cookie", ""},
		{"upper-case uuid is canonicalized", strings.ToUpper(fromCookie), "", fromCookie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(sessionHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Body.String()
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.NotEqual(t, tt.header, got)
			assert.Contains(t, w.Header().Get("Set-Cookie"), sessionCookie+"="+got)
		})
	}
}

type stubReceipts struct {
	rendered *order.View
	err      error
}

func (s *stubReceipts) GenerateReceipt(view *order.View) (*bytes.Buffer, error) {
	s.rendered = view
	if s.err != nil {
		return nil, s.err
	}
	return bytes.NewBufferString("%PDF-1.4"), nil
}

func TestDownloadReceipt(t *testing.T) {
	db := testutil.NewDB(t, &product.Product{}, &order.OrderRecord{}, &order.OrderDetail{}, &order.PaymentRecord{})
	userID := uuid.New()

	record := order.OrderRecord{
		UserID:   userID,
		PlacedAt: time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
		Status:   order.StatusPending,
		Total:    decimal.NewFromInt(450),
		Details: []order.OrderDetail{
			{ProductID: 7, ProductName: "Wall air extractor", UnitPrice: decimal.NewFromInt(450), Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&record).Error)

	receipts := &stubReceipts{}
	h := NewOrderHandler(order.NewService(db, logger.Discard()), receipts, logger.Discard())

	serve := func(asUser uuid.UUID) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/orders/:id/receipt", func(c *gin.Context) {
			c.Set("user_id", asUser)
			h.DownloadReceipt(c)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d/receipt", record.ID), nil))
		return w
	}

	w := serve(userID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-ORD-20250309-")
	require.NotNil(t, receipts.rendered)
	assert.Equal(t, "Wall air extractor", receipts.rendered.Lines[0].Name)

	assert.Equal(t, http.StatusNotFound, serve(uuid.New()).Code)

	receipts.err = errors.New("wkhtmltopdf not found")
	assert.Equal(t, http.StatusInternalServerError, serve(userID).Code)
}
