package middleware

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/paygs/paygs/internal/config"
)

func TestPanRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(PanRateLimit(cache, 2))
	app.Post("/payments", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	post := func(pan string) int {
		body := fmt.Sprintf(`{"cardNumber":%q}`, pan)
		req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 2; i++ {
		if status := post("4024007188053960"); status != fiber.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i+1, status)
		}
	}
	if status := post("4024007188053960"); status != fiber.StatusTooManyRequests {
		t.Fatalf("third attempt should be throttled, got %d", status)
	}

	// A different card is unaffected.
	if status := post("5555555555554444"); status != fiber.StatusCreated {
		t.Fatalf("other card should pass, got %d", status)
	}
}

func TestPanRateLimitZeroFallsBackToConfigDefault(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(PanRateLimit(cache, 0))
	app.Post("/payments", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	post := func() int {
		req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader(`{"cardNumber":"4024007188053960"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < config.DefaultPanRateLimit; i++ {
		if status := post(); status != fiber.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d", i+1, status)
		}
	}
	if status := post(); status != fiber.StatusTooManyRequests {
		t.Fatalf("attempt over the default limit should be throttled, got %d", status)
	}
}
