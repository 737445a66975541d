// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/cart"
	"github.com/your-org/ventilation-store/internal/domain/checkout"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"github.com/your-org/ventilation-store/internal/domain/review"
	"github.com/your-org/ventilation-store/internal/domain/validation"
	"github.com/your-org/ventilation-store/internal/interfaces/http/middleware"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "session_id"
	sessionMaxAge = 7 * 24 * 60 * 60
)

// respondError maps domain errors to status codes. Unknown errors are
// logged here and reported as a generic 500.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	var fieldErrs *validation.Errors
	var stockErr *cart.StockError

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"fields": fieldErrs.Fields,
		})

	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"details": gin.H{
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			},
		})

	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, review.ErrReviewNotFound),
		errors.Is(err, profile.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrSessionRequired),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, order.ErrInvalidStatusTransition),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, review.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, review.ErrNotOwner),
		errors.Is(err, review.ErrReviewNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout"})

	default:
		_ = c.Error(err)
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user id or writes a 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

// sessionID reads the cart session from the X-Session-ID header or cookie,
// issuing a new one when neither carries a valid uuid
func sessionID(c *gin.Context) string {
	id := validSession(c.GetHeader(sessionHeader))
	if id == "" {
		cookie, _ := c.Cookie(sessionCookie)
		id = validSession(cookie)
	}
	if id == "" {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
	}

	c.Header(sessionHeader, id)
	return id
}

// validSession returns the canonical form of a uuid session id, or "" when raw is not one
func validSession(raw string) string {
	parsed, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return ""
	}
	return parsed.String()
}
