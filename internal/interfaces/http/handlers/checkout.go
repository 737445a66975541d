// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/cart"
	"github.com/your-org/ventilation-store/internal/domain/checkout"
	"github.com/your-org/ventilation-store/internal/interfaces/http/middleware"
)

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	checkoutService *checkout.Service
	log             *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, log: log}
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if req.Email == "" {
		req.Email = middleware.GetUserEmailFromContext(c)
	}

	view, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, sessionID(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    view,
	})
}

// GetSummary handles GET /checkout/summary
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	total, count, err := h.checkoutService.Quote(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout summary retrieved successfully",
		"data": gin.H{
			"item_count":    count,
			"total":         total,
			"total_display": cart.Display(total),
		},
	})
}

// GetPaymentMethods handles GET /checkout/payment-methods
func (h *CheckoutHandler) GetPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    checkout.PaymentOptions(),
	})
}
