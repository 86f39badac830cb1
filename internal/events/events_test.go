package events

import (
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/rasoisetu/marketplace/internal/kafka"
)

type recorder struct {
	key     []byte
	value   []byte
	headers []kafkago.Header
	calls   int
}

func (r *recorder) Publish(key, value []byte, headers ...kafkago.Header) {
	r.key, r.value, r.headers = key, value, headers
	r.calls++
}

func TestEmit(t *testing.T) {
	rec := &recorder{}
	Emit(rec, EventOrderPlaced, "api-test", "trace-1", "order-42",
		OrderPlacedPayload{OrderID: "order-42", VendorID: "v1", TotalCents: 500})

	require.Equal(t, 1, rec.calls)
	assert.Equal(t, []byte("order-42"), rec.key)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.value, &env))
	assert.Equal(t, EventOrderPlaced, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "api-test", env.Producer)
	assert.Equal(t, "trace-1", env.TraceID)
	assert.Equal(t, "order-42", env.CorrelationID)
	assert.NotEmpty(t, env.EventID)
	assert.False(t, env.OccurredAt.IsZero())

	p, err := kafkax.UnwrapPayload[OrderPlacedPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "order-42", p.OrderID)
	assert.Equal(t, 500, p.TotalCents)

	require.Len(t, rec.headers, 2)
	assert.Equal(t, "x-event-type", rec.headers[0].Key)
	assert.Equal(t, []byte(EventOrderPlaced), rec.headers[0].Value)
}

func TestEmitNilPublisherIsNoop(t *testing.T) {
	// registries run without a broker in dev mode; Emit must tolerate that
	Emit(nil, EventSellerSubmitted, "api-test", "", "s1", SellerSubmittedPayload{SellerID: "s1"})
}
