package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports storage availability.
type HealthHandler struct {
	facade EventFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade EventFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check serves GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
