package middleware

import (
	"time"

	"go-jewelry-store/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit allows maxRequests requests per client IP in each window.
func RateLimit(maxRequests int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return apperror.RateLimited(message)
		},
	})
}
