// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/cart"
)

// CartHandler handles the session cart endpoints
type CartHandler struct {
	cartService *cart.Service
	log         *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, log *logrus.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, log: log}
}

// AddToCartRequest represents the add item payload
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest represents the set quantity payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.cartService.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    summary,
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	count, err := h.cartService.Count(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := h.cartService.Add(c.Request.Context(), sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    summary,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	summary, err := h.cartService.SetQuantity(c.Request.Context(), sessionID(c), productID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    summary,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.cartService.Remove(c.Request.Context(), sessionID(c), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    summary,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), sessionID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
