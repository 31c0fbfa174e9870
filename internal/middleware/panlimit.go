package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/paygs/paygs/internal/config"
)

// PanRateLimit throttles payment attempts per card number using Redis. The
// key is a digest of the PAN; the raw number never reaches the cache. Without
// Redis the limiter is a no-op, and cache errors fail open.
func PanRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = config.DefaultPanRateLimit
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			CardNumber string `json:"cardNumber"`
		}
		_ = c.BodyParser(&req)
		pan := strings.TrimSpace(req.CardNumber)
		if pan == "" {
			return c.Next()
		}

		digest := sha256.Sum256([]byte(pan))
		key := "rl:pan:" + hex.EncodeToString(digest[:])

		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next()
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts for this card, try again later")
		}
		return c.Next()
	}
}
