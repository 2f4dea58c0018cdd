package testutil

import (
	"time"

	"github.com/PrjctQ/qcore/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// NewTestConfig creates a test configuration
// This removes the need for environment variables during testing
func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "qcore-test",
			Env:         "test",
			Port:        8080,
			PortRetries: 5,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "test",
			User:            "test",
			Password:        "test",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			IsAutoMigrate:   true,
		},
		Auth: config.AuthConfig{
			TokenSecret: "test-token-secret-key-must-be-at-least-32-characters",
			TokenExpiry: 24 * time.Hour,
			BcryptCost:  bcrypt.MinCost,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Server: config.ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 30 * time.Second,
		},
		RateLimit: config.RateLimitConfig{
			Enabled: false,
			RPS:     20,
			Burst:   40,
		},
	}
}
