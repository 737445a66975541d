// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/analytics"
)

// AnalyticsHandler handles the admin dashboard
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	log              *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, log *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, log: log}
}

// GetDashboard handles GET /admin/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}
