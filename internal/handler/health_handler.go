package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hss-platform/service-booking/internal/response"
)

// HealthHandler reports service liveness and store reachability.
type HealthHandler struct {
	db      *gorm.DB
	service string
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, service, version string) *HealthHandler {
	return &HealthHandler{db: db, service: service, version: version}
}

// RegisterRoutes registers the health route on the given router group.
func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	response.JSON(c, code, gin.H{
		"status":    status,
		"service":   h.service,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
