package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"storefront/internal/events"
	"storefront/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndDecode(t *testing.T) {
	payload := events.OrderCreatedPayload{
		OrderID:    "order-1",
		UserID:     "user-1",
		Items:      []events.OrderLine{{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(20)}},
		SubTotal:   decimal.NewFromInt(40),
		Discount:   decimal.NewFromInt(4),
		GrandTotal: decimal.NewFromInt(36),
	}
	env, err := events.New(events.TypeOrderCreated, "order-1", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "order-1", env.CorrelationID)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	decoded, err := events.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, events.TypeOrderCreated, decoded.EventType)

	got, err := events.UnwrapPayload[events.OrderCreatedPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.OrderID)
	assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(36)))
}

func TestDecode_Rejects(t *testing.T) {
	_, err := events.Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = events.Decode([]byte(`{"event_id":"x"}`))
	assert.ErrorContains(t, err, "missing event_type")
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "info"))

	env, err := events.New(events.TypePaymentPrefix+"checkout.session.completed", "order-9",
		events.PaymentPayload{SessionID: "cs_1", OrderID: "order-9", PaymentStatus: "paid"})
	require.NoError(t, err)
	b, _ := json.Marshal(env)

	require.NoError(t, events.LogHandler(ctx, b))
	assert.Contains(t, buf.String(), `"msg":"payment event"`)
	assert.Contains(t, buf.String(), `"session_id":"cs_1"`)

	assert.Error(t, events.LogHandler(ctx, []byte("{")))
}
