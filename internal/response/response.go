// Package response shapes every HTTP reply: success envelopes, the error
// taxonomy mapping, and the request-correlation token.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hss-platform/service-booking/internal/domain"
)

const requestIDKey = "request_id"

// SetRequestID stores the request-correlation token for this request.
func SetRequestID(c *gin.Context, id string) {
	c.Set(requestIDKey, id)
}

// RequestID returns the request-correlation token for this request.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// JSON writes a payload with the request-correlation token attached.
func JSON(c *gin.Context, status int, payload gin.H) {
	payload[requestIDKey] = RequestID(c)
	c.JSON(status, payload)
}

// errorBody is the wire shape of every error reply.
type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func writeError(c *gin.Context, status int, code, message string, details []string) {
	c.JSON(status, gin.H{
		"error":      errorBody{Code: code, Message: message, Details: details},
		requestIDKey: RequestID(c),
	})
}

// Error maps a domain error onto the HTTP error taxonomy. Anything outside
// the taxonomy is an internal fault and surfaces as a generic 500.
func Error(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeError(c, http.StatusBadRequest, "validation_error", validationErr.Message, validationErr.Details)
		return
	}

	var forbiddenErr *domain.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		var details []string
		if len(forbiddenErr.RequiredRoles) > 0 {
			details = []string{"required_roles=" + strings.Join(forbiddenErr.RequiredRoles, ",")}
		}
		writeError(c, http.StatusForbidden, "forbidden", forbiddenErr.Message, details)
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeError(c, http.StatusNotFound, "not_found", notFoundErr.Error(), nil)
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		writeError(c, http.StatusConflict, "conflict", conflictErr.Message, nil)
		return
	}

	Internal(c)
}

// Internal writes the generic internal failure reply.
func Internal(c *gin.Context) {
	writeError(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}
