// Package bootstrap wires the common gin engine setup and the HTTP server
// lifecycle: port binding with in-use retries, signal handling and graceful
// shutdown.
package bootstrap

import (
	"io"

	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/PrjctQ/qcore/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Bootstrap handles common server setup shared by every qcore application.
type Bootstrap struct {
	cfg *config.Config
}

// NewBootstrap creates a new bootstrap instance
func NewBootstrap(cfg *config.Config) *Bootstrap {
	return &Bootstrap{
		cfg: cfg,
	}
}

// SetupEngine creates and configures a gin engine with the common middleware
// stack, including the error pipeline at the boundary.
func (b *Bootstrap) SetupEngine() *gin.Engine {
	if b.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Disable gin's default logger (using slog)
	gin.DefaultWriter = io.Discard
	gin.DefaultErrorWriter = io.Discard

	engine := gin.New()

	// Stack traces in error responses only outside production.
	includeStack := !b.cfg.IsProduction()

	engine.Use(middleware.Recovery(includeStack))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(b.cfg))
	engine.Use(middleware.Timeout(middleware.DefaultTimeout))
	engine.Use(middleware.Logger())
	if b.cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(b.cfg))
	}
	engine.Use(middleware.ErrorHandler(includeStack))

	return engine
}
