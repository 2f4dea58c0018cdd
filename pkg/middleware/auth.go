package middleware

import (
	"log/slog"
	"strings"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/pipeline"
	"github.com/PrjctQ/qcore/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"

	// SubjectKey and EmailKey hold the authenticated principal in the gin
	// context after Auth succeeds.
	SubjectKey = "auth_subject"
	EmailKey   = "auth_email"
)

// Auth validates a bearer token and stores the principal in the context.
// Failures are rendered through the error pipeline as 401 envelopes.
func Auth(manager token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := extractToken(c)
		if err != nil {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := manager.Validate(raw)
		if err != nil {
			slog.Warn("token validation failed",
				"error", err.Error(),
				"client_ip", c.ClientIP(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	env := pipeline.Normalize(apierror.NewUnauthorized(message), false)
	c.AbortWithStatusJSON(env.StatusCode, env)
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", token.ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", token.ErrInvalidToken
	}

	return parts[1], nil
}
