package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/paygs/paygs/internal/logging"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: FiberHandler(logging.Discard())})
	app.Get("/", handler)
	return app
}

func get(t *testing.T, app *fiber.App) (*http.Response, errorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp, body
}

func TestHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("amount must be positive"), http.StatusBadRequest, ""},
		{"not acceptable", NotAcceptable(CodeCardExpired), http.StatusNotAcceptable, CodeCardExpired},
		{"unauthorized", Unauthorized(), http.StatusUnauthorized, ""},
		{"upstream", Upstream(errors.New("dial tcp"), "issuing bank authentication failed"), http.StatusBadGateway, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(func(*fiber.Ctx) error { return tt.err })
			resp, body := get(t, app)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestHandlerCodedMessageText(t *testing.T) {
	app := newApp(func(*fiber.Ctx) error { return NotAcceptable(CodeAmountExceeded) })
	_, body := get(t, app)
	if body.Message != "Amount exceeds permitted limit" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestHandlerHidesUnexpectedErrors(t *testing.T) {
	app := newApp(func(*fiber.Ctx) error { return errors.New("pgx: connection refused") })
	resp, body := get(t, app)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body.Code != CodeUnexpected {
		t.Fatalf("code = %q, want %q", body.Code, CodeUnexpected)
	}
	if strings.Contains(body.Message, "pgx") {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
	// The correlation token is parenthesized ahead of the generic message.
	if !strings.HasPrefix(body.Message, "(") || !strings.HasSuffix(body.Message, ") : Unexpected Error occurred") {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestHasCode(t *testing.T) {
	err := NotAcceptable(CodeCardNotValid)
	if !HasCode(err, CodeCardNotValid) {
		t.Fatal("HasCode missed matching code")
	}
	if HasCode(err, CodeCardExpired) {
		t.Fatal("HasCode matched wrong code")
	}
	if HasCode(errors.New("plain"), CodeCardNotValid) {
		t.Fatal("HasCode matched non-API error")
	}
}
