package middleware

import (
	"net/http"
	"sync"

	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/PrjctQ/qcore/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxLimiterEntries bounds the per-IP limiter map; the map is reset when the
// bound is hit, which is acceptable for a best-effort limiter.
const maxLimiterEntries = 10000

// RateLimit applies a token-bucket limit per client IP.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if len(limiters) >= maxLimiterEntries {
			limiters = make(map[string]*rate.Limiter)
		}

		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			env := response.New(http.StatusTooManyRequests, "Too many requests", nil)
			c.AbortWithStatusJSON(env.StatusCode, env)
			return
		}
		c.Next()
	}
}
