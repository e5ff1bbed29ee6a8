package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
)

func ValidateAPIKey(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey == "" || apiKey != cfg.AdminAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
