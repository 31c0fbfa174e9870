package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paygs/paygs/internal/threeds"
)

// BankClient is the connector to an issuing bank's authentication and
// authorization endpoints.
type BankClient interface {
	Authenticate(ctx context.Context, url string, req threeds.AuthenticationRequest) (threeds.AuthenticationResponse, error)
	Authorize(ctx context.Context, url string, req threeds.AuthorizationRequest) (threeds.AuthorizationResponse, error)
}

// HTTPBankClient speaks the bank protocol over HTTP. Every call is bounded by
// the client timeout; a timeout surfaces as a transport error and is handled
// exactly like any other upstream failure. No retries.
type HTTPBankClient struct {
	client *http.Client
}

// NewHTTPBankClient builds a bank connector with the given per-call timeout.
func NewHTTPBankClient(timeout time.Duration) *HTTPBankClient {
	return &HTTPBankClient{client: &http.Client{Timeout: timeout}}
}

// Authenticate posts a 3DS authentication request.
func (c *HTTPBankClient) Authenticate(ctx context.Context, url string, req threeds.AuthenticationRequest) (threeds.AuthenticationResponse, error) {
	var resp threeds.AuthenticationResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return threeds.AuthenticationResponse{}, err
	}
	return resp, nil
}

// Authorize posts an authorization request.
func (c *HTTPBankClient) Authorize(ctx context.Context, url string, req threeds.AuthorizationRequest) (threeds.AuthorizationResponse, error) {
	var resp threeds.AuthorizationResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return threeds.AuthorizationResponse{}, err
	}
	return resp, nil
}

func (c *HTTPBankClient) post(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode bank request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build bank request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("call %s: unexpected status %d", url, httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode bank response from %s: %w", url, err)
	}
	return nil
}
