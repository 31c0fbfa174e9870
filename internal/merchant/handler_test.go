package merchant

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/paygs/paygs/internal/apierrors"
	"github.com/paygs/paygs/internal/logging"
	"github.com/paygs/paygs/internal/middleware"
)

func newRegistryApp(t *testing.T, f registryFixture) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apierrors.FiberHandler(logging.Discard())})
	handler := NewHandler(f.service)
	authed := app.Group("", middleware.MerchantAuth())
	authed.Post("/clients", handler.CreateClient)
	authed.Put("/clients", handler.UpdateClient)
	authed.Get("/clients/:uuid", handler.GetClient)
	authed.Post("/pos", handler.CreatePos)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, caller string, body any) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(middleware.CallerIDHeader, caller)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func clientPayload(f registryFixture) fiber.Map {
	return fiber.Map{
		"name":               "Corner Shop",
		"address":            "1 Main St",
		"pan":                "5555555555554444",
		"isActive":           true,
		"bankUuid":           f.bank.UUID,
		"redirectURL":        "http://shop.test/return",
		"supportedCardTypes": []fiber.Map{{"uuid": f.cardType.UUID}},
	}
}

func TestClientEndpoints(t *testing.T) {
	f := newRegistryFixture(t)
	app := newRegistryApp(t, f)

	resp := doJSON(t, app, http.MethodPost, "/clients", testCaller, clientPayload(f))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created client: %v", err)
	}
	if created.UUID == "" {
		t.Fatal("client uuid not assigned")
	}

	resp = doJSON(t, app, http.MethodGet, "/clients/"+created.UUID, testCaller, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}

	update := clientPayload(f)
	update["uuid"] = created.UUID
	update["name"] = "Corner Shop 2"
	resp = doJSON(t, app, http.MethodPut, "/clients", testCaller, update)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("update status = %d, want 201", resp.StatusCode)
	}
	var updated clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated client: %v", err)
	}
	if updated.Name != "Corner Shop 2" {
		t.Fatalf("name = %q", updated.Name)
	}

	resp = doJSON(t, app, http.MethodPost, "/pos", testCaller, fiber.Map{"isActive": true, "clientUuid": created.UUID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("pos status = %d, want 201", resp.StatusCode)
	}
	var pos posResponse
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		t.Fatalf("decode pos: %v", err)
	}
	if pos.ClientUUID != created.UUID {
		t.Fatalf("pos client = %q, want %q", pos.ClientUUID, created.UUID)
	}
}

func TestClientEndpointsRequireCallerIdentity(t *testing.T) {
	f := newRegistryFixture(t)
	app := newRegistryApp(t, f)

	resp := doJSON(t, app, http.MethodPost, "/clients", "", clientPayload(f))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGetClientForeignCaller(t *testing.T) {
	f := newRegistryFixture(t)
	app := newRegistryApp(t, f)

	resp := doJSON(t, app, http.MethodPost, "/clients", testCaller, clientPayload(f))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created client: %v", err)
	}

	resp = doJSON(t, app, http.MethodGet, "/clients/"+created.UUID, "someone-else", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateClientUnknownBankReturnsCodedError(t *testing.T) {
	f := newRegistryFixture(t)
	app := newRegistryApp(t, f)

	payload := clientPayload(f)
	payload["bankUuid"] = "00000000-0000-0000-0000-000000000001"
	resp := doJSON(t, app, http.MethodPost, "/clients", testCaller, payload)
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Fatalf("status = %d, want 406", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != apierrors.CodeBankNotValid {
		t.Fatalf("code = %q, want %q", body.Code, apierrors.CodeBankNotValid)
	}
}
