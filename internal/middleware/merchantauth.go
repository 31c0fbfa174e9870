package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// CallerIDHeader carries the authenticated merchant subject, set by the
	// upstream authenticator. Token issuance and role checks happen there,
	// not in this service.
	CallerIDHeader = "X-Client-Id"

	callerIDLocal = "caller_id"
)

// MerchantAuth requires a caller identity on every request and stores it in
// the request locals for ownership checks downstream.
func MerchantAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := strings.TrimSpace(c.Get(CallerIDHeader))
		if caller == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing caller identity")
		}
		c.Locals(callerIDLocal, caller)
		return c.Next()
	}
}

// CallerID returns the authenticated caller identity stored by MerchantAuth,
// or an empty string when the route is unauthenticated.
func CallerID(c *fiber.Ctx) string {
	caller, _ := c.Locals(callerIDLocal).(string)
	return caller
}
