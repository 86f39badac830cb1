// Package events defines the lifecycle event bus contract: topics,
// the versioned envelope, and the per-event payloads emitted by the
// seller registry and the order ledger.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/rasoisetu/marketplace/internal/kafka"
)

const (
	TopicOrderPlaced     = "marketplace.order.placed"
	TopicOrderStatus     = "marketplace.order.status"
	TopicSellerSubmitted = "marketplace.seller.submitted"
	TopicSellerStatus    = "marketplace.seller.status"
)

const (
	EventOrderPlaced         = "OrderPlaced"
	EventOrderStatusChanged  = "OrderStatusChanged"
	EventSellerSubmitted     = "SellerSubmitted"
	EventSellerStatusChanged = "SellerStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order or seller id
	Payload       json.RawMessage `json:"payload"`
}

// Partition key = entity id, so all events of one order/seller keep order.
func PartitionKey(id string) []byte { return []byte(id) }

// Publisher is what the registries need from the kafka producer.
// *kafka.Producer satisfies it; tests plug a recorder.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Emit wraps payload in a v1 envelope and hands it to the publisher.
// Best-effort: the producer buffers and the state change has already
// been committed by the time Emit runs.
func Emit(p Publisher, eventType, producer, traceID, correlationID string, payload any) {
	if p == nil {
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(correlationID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// ---- payloads ----

type LineQty struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

type OrderPlacedPayload struct {
	OrderID    string    `json:"order_id"`
	VendorID   string    `json:"vendor_id"`
	SellerID   string    `json:"seller_id"`
	Items      []LineQty `json:"items"`
	TotalCents int       `json:"total_cents"`
}

type OrderStatusPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type SellerSubmittedPayload struct {
	SellerID string `json:"seller_id"`
	Name     string `json:"name"`
}

type SellerStatusPayload struct {
	SellerID string `json:"seller_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}
