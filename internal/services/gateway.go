package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GatewayResult is the resolved outcome of a gateway call.
type GatewayResult struct {
	Success   bool
	Reference string
	Reason    string
}

// PaymentGateway is the external payment collaborator. Calls are one-shot
// with no automatic retry; the ledger resolves every call to a terminal
// payment state before returning.
type PaymentGateway interface {
	Charge(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error)
}

// NewGatewayFromEnv returns the HTTP gateway when PAYMENT_GATEWAY_URL is set,
// otherwise the in-process simulated gateway.
func NewGatewayFromEnv() PaymentGateway {
	if url := os.Getenv("PAYMENT_GATEWAY_URL"); url != "" {
		return NewHTTPGateway(url, 15*time.Second)
	}
	return &SimulatedGateway{}
}

// SimulatedGateway approves any positive charge and any refund. Used in
// development and tests in place of a real gateway.
type SimulatedGateway struct{}

func (g *SimulatedGateway) Charge(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error) {
	if !amount.IsPositive() {
		return GatewayResult{Success: false, Reason: "Invalid amount"}, nil
	}
	return GatewayResult{Success: true, Reference: "TXN_" + uuid.NewString()}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error) {
	return GatewayResult{Success: true, Reference: "REF_" + uuid.NewString()}, nil
}

// HTTPGateway talks to an external payment provider over HTTP. The client
// timeout bounds every call; a timed-out or failed call resolves to a
// failure result so the payment always lands in a terminal state.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type gatewayRequest struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
}

type gatewayResponse struct {
	Success    bool   `json:"success"`
	GatewayRef string `json:"gatewayRef"`
	Reason     string `json:"reason"`
}

func (g *HTTPGateway) Charge(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error) {
	return g.post(ctx, "/charge", transactionID, amount, method)
}

func (g *HTTPGateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error) {
	return g.post(ctx, "/refund", transactionID, amount, method)
}

func (g *HTTPGateway) post(ctx context.Context, path, transactionID string, amount decimal.Decimal, method string) (GatewayResult, error) {
	body, err := json.Marshal(gatewayRequest{
		Reference: transactionID,
		Amount:    amount.StringFixed(2),
		Method:    method,
	})
	if err != nil {
		return GatewayResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return GatewayResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return GatewayResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GatewayResult{Success: false, Reason: fmt.Sprintf("gateway returned status %d", resp.StatusCode)}, nil
	}

	var result gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return GatewayResult{}, err
	}

	return GatewayResult{Success: result.Success, Reference: result.GatewayRef, Reason: result.Reason}, nil
}
