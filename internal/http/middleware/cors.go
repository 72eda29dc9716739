package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware разрешает запросы только с origins из allowedOrigins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{
		"Authorization", "Origin", "Content-Type", "Content-Length",
		"Accept", "Accept-Encoding", "Cache-Control", "X-Requested-With",
	}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
