// Package handlers contains the HTTP handlers for the API server.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/accountantiq/accountantiq-backend/internal/api/dto"
)

// HealthHandler handles health check requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Get handles the health check request.
func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse())
}
