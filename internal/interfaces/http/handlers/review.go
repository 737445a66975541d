// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/review"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	reviewService *review.Service
	log           *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.Service, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, log: log}
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// GetMyReviews handles GET /reviews/mine
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// GetPendingReviews handles GET /reviews/pending
func (h *ReviewHandler) GetPendingReviews(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	pending, err := h.reviewService.Pending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending reviews retrieved successfully",
		"data":    pending,
	})
}

// CreateReview handles POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req review.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	created, err := h.reviewService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"data":    created,
	})
}

// UpdateReview handles PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req review.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	updated, err := h.reviewService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"data":    updated,
	})
}

// DeleteReview handles DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
