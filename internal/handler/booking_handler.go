package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hss-platform/service-booking/internal/application"
	"github.com/hss-platform/service-booking/internal/domain"
	"github.com/hss-platform/service-booking/internal/domain/booking"
	"github.com/hss-platform/service-booking/internal/response"
)

// BookingHandler handles the customer-facing booking endpoints.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/payment", h.CapturePayment)
		bookings.PATCH("/:id/status", h.UpdateStatus)
	}
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := parseStatusFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), status, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"id":                result.ID,
		"customer_name":     result.CustomerName,
		"email":             result.Email,
		"pickup_date":       result.PickupDate,
		"pickup_window":     result.PickupWindow,
		"address":           result.Address,
		"duration_months":   result.DurationMonths,
		"item_count":        result.ItemCount,
		"monthly_subtotal":  result.MonthlySubtotal,
		"handling_fee":      result.HandlingFee,
		"total":             result.Total,
		"status":            result.Status,
		"payment_reference": result.PaymentReference,
		"created_at":        result.CreatedAt,
		"updated_at":        result.UpdatedAt,
		"items":             result.Items,
	})
}

// CreateBooking handles POST /api/v1/bookings. The payload stays untyped
// here so the validator can report every problem at once.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, domain.NewValidationError("Malformed JSON payload"))
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"booking_id": result.BookingID,
		"status":     result.Status,
	})
}

// CapturePayment handles POST /api/v1/bookings/:id/payment.
func (h *BookingHandler) CapturePayment(c *gin.Context) {
	var body struct {
		Method string `json:"method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domain.NewValidationError("Malformed JSON payload"))
		return
	}
	if body.Method == "" {
		body.Method = string(booking.PaymentMethodCard)
	}

	result, err := h.service.CapturePayment(c.Request.Context(), c.Param("id"), booking.ParsePaymentMethod(body.Method))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"booking_id":        result.BookingID,
		"payment_reference": result.PaymentReference,
		"status":            result.Status,
	})
}

// UpdateStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domain.NewValidationError("Malformed JSON payload"))
		return
	}

	target, err := booking.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, domain.NewValidationError(
			fmt.Sprintf("status must be one of %v", booking.AllStatuses())))
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"booking_id": result.BookingID,
		"status":     result.Status,
	})
}

// parsePagination extracts limit and offset query parameters, clamping
// limit to [1,200] and offset to [0,inf). Non-integer input is a
// validation error rather than a silent default.
func parsePagination(c *gin.Context) (int, int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		return 0, 0, domain.NewValidationError("limit and offset must be integers")
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, domain.NewValidationError("limit and offset must be integers")
	}

	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

// parseStatusFilter extracts an optional status query parameter.
func parseStatusFilter(c *gin.Context) (*booking.Status, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := booking.ParseStatus(raw)
	if err != nil {
		return nil, domain.NewValidationError(
			fmt.Sprintf("status must be one of %v", booking.AllStatuses()))
	}
	return &status, nil
}
