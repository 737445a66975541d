// internal/interfaces/http/handlers/profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"github.com/your-org/ventilation-store/internal/interfaces/http/middleware"
)

// ProfileHandler handles the customer profile and admin customer endpoints
type ProfileHandler struct {
	profileService *profile.Service
	log            *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profile.Service, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, log: log}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p, err := h.profileService.GetOrDefault(c.Request.Context(), userID, middleware.GetUserEmailFromContext(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    p,
	})
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req profile.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	p, err := h.profileService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    p,
	})
}

// AdminGetCustomers handles GET /admin/customers?search=
func (h *ProfileHandler) AdminGetCustomers(c *gin.Context) {
	var req profile.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	customers, err := h.profileService.ListCustomers(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customers retrieved successfully",
		"data":    customers,
	})
}

// AdminUpdateCustomer handles PUT /admin/customers/:id
func (h *ProfileHandler) AdminUpdateCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid customer ID", nil)
		return
	}

	var req profile.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	p, err := h.profileService.UpdateCustomer(c.Request.Context(), customerID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer updated successfully",
		"data":    p,
	})
}
