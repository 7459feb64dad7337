package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hss-platform/service-booking/internal/application"
	"github.com/hss-platform/service-booking/internal/domain/booking"
	"github.com/hss-platform/service-booking/internal/middleware"
	"github.com/hss-platform/service-booking/internal/response"
)

// StaffHandler handles the staff work-queue endpoints.
type StaffHandler struct {
	service *application.BookingService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(service *application.BookingService) *StaffHandler {
	return &StaffHandler{service: service}
}

// RegisterRoutes registers staff routes on the given router group.
func (h *StaffHandler) RegisterRoutes(r *gin.RouterGroup) {
	staff := r.Group("/api/v1/staff")
	staff.Use(middleware.RequireRole(booking.RoleStaff, booking.RoleAdmin))
	{
		staff.GET("/queue", h.Queue)
		staff.POST("/bookings/:id/approve", h.ApproveBooking)
	}
}

// Queue handles GET /api/v1/staff/queue: bookings awaiting physical
// handling, oldest first.
func (h *StaffHandler) Queue(c *gin.Context) {
	queue, err := h.service.StaffQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"queue": queue, "count": len(queue)})
}

// ApproveBooking handles POST /api/v1/staff/bookings/:id/approve.
func (h *StaffHandler) ApproveBooking(c *gin.Context) {
	result, err := h.service.ApproveBooking(c.Request.Context(), c.Param("id"), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"booking_id": result.BookingID,
		"status":     result.Status,
	})
}
