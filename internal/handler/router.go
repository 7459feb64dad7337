package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hss-platform/service-booking/internal/application"
	"github.com/hss-platform/service-booking/internal/middleware"
)

// ServiceName identifies this service in health replies and logs.
const ServiceName = "service-booking"

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "2.0"

// NewRouter assembles the gin engine with the global middleware chain and
// every route group.
func NewRouter(service *application.BookingService, db *gorm.DB, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Role())

	NewHealthHandler(db, ServiceName, ServiceVersion).RegisterRoutes(&router.RouterGroup)
	NewAuthHandler(service).RegisterRoutes(&router.RouterGroup)
	NewBookingHandler(service).RegisterRoutes(&router.RouterGroup)
	NewStaffHandler(service).RegisterRoutes(&router.RouterGroup)
	NewAdminHandler(service).RegisterRoutes(&router.RouterGroup)

	return router
}
