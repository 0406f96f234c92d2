package middleware

import (
	"fmt"

	"github.com/gamassss/shortlink/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit guards an endpoint with an in-memory limiter keyed by
// client IP. rate uses limiter notation, e.g. "30-M". The in-memory
// store keeps the limiter independent of cache availability.
func RateLimit(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)

	return func(c *gin.Context) {
		limiterCtx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			// The limiter failing must not take the endpoint down.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiterCtx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limiterCtx.Remaining))

		if limiterCtx.Reached {
			response.TooManyRequests(c, "Rate limit exceeded, try again later")
			c.Abort()
			return
		}

		c.Next()
	}, nil
}
