package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/location-microservice/internal/pkg/errors"
)

const bearerPrefix = "Bearer "

// AdminAuth gates a route behind a bearer token, comparing it to the
// configured admin token in constant time after equalizing lengths so the
// comparison itself leaks no timing signal about a partial match.
func AdminAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperrors.ErrUnauthorized
		}
		presented := strings.TrimPrefix(header, bearerPrefix)

		if !constantTimeEqual(presented, token) {
			return apperrors.ErrUnauthorized
		}

		return c.Next()
	}
}

// constantTimeEqual compares two strings without leaking their length
// difference through subtle.ConstantTimeCompare's early return on mismatched
// slice lengths.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		// Still run a comparison of equal length so this branch and the
		// success path take a similar amount of time.
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
