package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hss-platform/service-booking/internal/application"
	"github.com/hss-platform/service-booking/internal/domain/booking"
	"github.com/hss-platform/service-booking/internal/middleware"
	"github.com/hss-platform/service-booking/internal/response"
)

// auditTailLimit caps the audit log endpoint at the most recent events.
const auditTailLimit = 200

// AdminHandler handles the admin reporting endpoints and the audit trail.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin and audit routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.RequireRole(booking.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/overview", h.Overview)
	}

	r.GET("/api/v1/audit",
		middleware.RequireRole(booking.RoleStaff, booking.RoleAdmin),
		h.AuditTrail)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	status, err := parseStatusFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.AdminListBookings(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Overview handles GET /api/v1/admin/overview.
func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"total_bookings":   overview.TotalBookings,
		"gross_value":      overview.GrossValue,
		"paid_revenue":     overview.PaidRevenue,
		"status_breakdown": overview.StatusBreakdown,
	})
}

// AuditTrail handles GET /api/v1/audit: the most recent audit events,
// newest first, payloads deserialized.
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	auditEvents, err := h.service.AuditTail(c.Request.Context(), auditTailLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"events": auditEvents})
}
