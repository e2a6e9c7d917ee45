package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewayCharge(t *testing.T) {
	g := &SimulatedGateway{}

	result, err := g.Charge(context.Background(), "PAY-1", decimal.NewFromInt(100), "CARD")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Reference, "TXN_")
}

func TestSimulatedGatewayRejectsNonPositiveCharge(t *testing.T) {
	g := &SimulatedGateway{}

	result, err := g.Charge(context.Background(), "PAY-1", decimal.Zero, "CARD")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestSimulatedGatewayRefund(t *testing.T) {
	g := &SimulatedGateway{}

	result, err := g.Refund(context.Background(), "PAY-2", decimal.NewFromInt(50), "CARD")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Reference, "REF_")
}

func TestNewGatewayFromEnvDefaultsToSimulated(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_URL", "")

	_, ok := NewGatewayFromEnv().(*SimulatedGateway)
	assert.True(t, ok)
}

func TestNewGatewayFromEnvUsesHTTPWhenConfigured(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_URL", "http://localhost:9999")

	_, ok := NewGatewayFromEnv().(*HTTPGateway)
	assert.True(t, ok)
}
