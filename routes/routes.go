package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	"github.com/techmart-online/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.GET("/metrics", middleware.PrometheusHandler())

	SetupPublicRoutes(r, db, cfg)
	SetupUserRoutes(r, db, cfg)
	SetupAdminRoutes(r, db, cfg)
}
