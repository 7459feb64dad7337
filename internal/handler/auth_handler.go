package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hss-platform/service-booking/internal/application"
	"github.com/hss-platform/service-booking/internal/domain"
	"github.com/hss-platform/service-booking/internal/response"
)

// AuthHandler handles the demo login endpoint. Tokens issued here are not
// credentials; role claims stay advisory.
type AuthHandler struct {
	service *application.BookingService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *application.BookingService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers auth routes on the given router group.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/auth/login", h.Login)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domain.NewValidationError("Malformed JSON payload"))
		return
	}

	result, err := h.service.Login(body.Email, body.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"token":      result.Token,
		"role":       result.Role,
		"expires_in": result.ExpiresIn,
	})
}
