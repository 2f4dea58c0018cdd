package middleware

import (
	"time"

	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin policy from configuration. A single "*" origin
// switches to gin-contrib's allow-all mode, since the library rejects the
// literal wildcard in the origin list when credentials are allowed.
func CORS(cfg *config.Config) gin.HandlerFunc {
	policy := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}

	if len(policy.AllowOrigins) == 1 && policy.AllowOrigins[0] == "*" {
		policy.AllowAllOrigins = true
		policy.AllowOrigins = nil
	}

	return cors.New(policy)
}
