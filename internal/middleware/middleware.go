package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hss-platform/service-booking/internal/domain"
	"github.com/hss-platform/service-booking/internal/domain/booking"
	"github.com/hss-platform/service-booking/internal/response"
)

const (
	// HeaderRequestID carries the request-correlation token.
	HeaderRequestID = "X-Request-Id"
	// HeaderRole carries the advisory role claim. Not a credential.
	HeaderRole = "X-HSS-Role"

	roleKey = "role"
)

// RequestID honors an inbound X-Request-Id or mints a short token, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		}
		response.SetRequestID(c, requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Next()
	}
}

// CORS applies the permissive cross-origin policy. The role header is
// advisory, so there is nothing to protect at this layer.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", HeaderRole, HeaderRequestID},
		MaxAge:       12 * time.Hour,
	})
}

// Role extracts the caller's role claim, defaulting to customer.
func Role() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(roleKey, booking.ParseRole(c.GetHeader(HeaderRole)))
		c.Next()
	}
}

// GetRole returns the caller's role claim for this request.
func GetRole(c *gin.Context) booking.Role {
	if role, ok := c.Get(roleKey); ok {
		if r, ok := role.(booking.Role); ok {
			return r
		}
	}
	return booking.RoleCustomer
}

// RequireRole aborts with 403 unless the caller's role claim is one of the
// given roles.
func RequireRole(roles ...booking.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}

	return func(c *gin.Context) {
		if !GetRole(c).OneOf(roles...) {
			response.Error(c, domain.NewForbiddenError("Insufficient permissions", names...))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per completed request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", response.RequestID(c)),
			zap.String("role", string(GetRole(c))),
		)
	}
}

// Recovery converts panics into a generic internal failure so transport
// faults never leak internals to the caller.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", response.RequestID(c)),
				)
				response.Internal(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}
