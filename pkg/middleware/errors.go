package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/PrjctQ/qcore/pkg/pipeline"
	"github.com/gin-gonic/gin"
)

// ErrorHandler is the single place where errors attached to the gin context
// become client-visible output. Handlers call c.Error(err) and abort; this
// middleware runs the error pipeline and writes the envelope.
func ErrorHandler(includeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		env := pipeline.Normalize(err, includeStack)
		c.JSON(env.StatusCode, env)
	}
}

// Recovery converts panics into the uniform error envelope instead of
// crashing the request pipeline. The stack is captured at the panic site.
func Recovery(includeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				stack := debug.Stack()

				slog.Error("panic recovered",
					"panic", recovered,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"request_id", GetRequestID(c),
				)

				env := pipeline.NormalizeRecovered(recovered, stack, includeStack)
				c.AbortWithStatusJSON(env.StatusCode, env)
			}
		}()

		c.Next()
	}
}
