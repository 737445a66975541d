// internal/interfaces/http/handlers/order.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/order"
)

// ReceiptGenerator renders an order as a PDF document
type ReceiptGenerator interface {
	GenerateReceipt(view *order.View) (*bytes.Buffer, error)
}

// OrderHandler handles customer and admin order endpoints
type OrderHandler struct {
	orderService *order.Service
	receipts     ReceiptGenerator
	log          *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, receipts ReceiptGenerator, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, receipts: receipts, log: log}
}

// CancelOrderRequest carries an optional cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// GetOrders handles GET /orders?status=
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := order.ParseStatus(c.Query("status"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	all, err := h.orderService.ListForUser(c.Request.Context(), userID, order.StatusAll)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": order.FilterByStatus(all, status),
			"counts": order.CountByStatus(all),
		},
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.orderService.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    view,
	})
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request data", err)
		return
	}

	view, err := h.orderService.CancelForUser(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    view,
	})
}

// DownloadReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.orderService.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	buf, err := h.receipts.GenerateReceipt(view)
	if err != nil {
		respondError(c, h.log, fmt.Errorf("failed to generate receipt for order %d: %w", id, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, view.Number))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// AdminGetOrders handles GET /admin/orders?status=&search=
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.AdminListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	views, err := h.orderService.AdminList(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    views,
	})
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.orderService.AdminGet(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    view,
	})
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil || status == order.StatusAll {
		respondError(c, h.log, fmt.Errorf("%w: %q", order.ErrInvalidStatus, req.Status))
		return
	}

	view, err := h.orderService.UpdateStatus(c.Request.Context(), id, status, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    view,
	})
}
