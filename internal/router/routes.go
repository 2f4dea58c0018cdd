package router

import (
	"fmt"

	"github.com/PrjctQ/qcore/internal/meta"
	"github.com/PrjctQ/qcore/internal/user"
	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/PrjctQ/qcore/pkg/database"
	"github.com/PrjctQ/qcore/pkg/router"
	"github.com/PrjctQ/qcore/pkg/token"
	"github.com/gin-gonic/gin"
)

// Setup configures all application-specific routes using dependency injection
func Setup(engine *gin.Engine, cfg *config.Config, db *database.DB) error {
	// Meta handler (health check)
	metaHandler := meta.NewHandler(cfg, db)
	engine.GET("/health", metaHandler.Health)

	// shared services
	tokenManager := token.NewJWTManager(cfg)

	// scaffolded user resource
	userService, err := user.NewService(db.DB, cfg, tokenManager)
	if err != nil {
		return fmt.Errorf("setup user resource: %w", err)
	}
	userController := user.NewController(userService)

	// API v1 routes
	api := engine.Group("/api/v1")
	router.Mount(api, "", user.NewResource(userController))
	user.RegisterProtected(api, userController, tokenManager)

	return nil
}
