// Package notifier keeps the read-side caches in step with lifecycle
// events: order status snapshots for the gateway's fast path, and the
// seller-stats cache, which any decision invalidates.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rasoisetu/marketplace/internal/events"
	kafkax "github.com/rasoisetu/marketplace/internal/kafka"
	"github.com/rasoisetu/marketplace/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent consumes order.placed and order.status messages and
// refreshes the cached status for the order.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	if dup, err := s.seen(ctx, env.EventID); err != nil || dup {
		return err
	}

	var orderID, status string
	switch env.EventType {
	case events.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[events.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, "pending"
	case events.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[events.OrderStatusPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID, status = p.OrderID, p.To
	default:
		return nil
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]string{"status": status})
	if err := s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		return err
	}
	log.Printf("order %s status cache -> %s", orderID, status)
	return nil
}

// HandleSellerEvent drops the cached stats snapshot whenever a seller's
// status moves, so the next read recomputes from the registry.
func (s *Service) HandleSellerEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventSellerStatusChanged && env.EventType != events.EventSellerSubmitted {
		return nil
	}
	if dup, err := s.seen(ctx, env.EventID); err != nil || dup {
		return err
	}
	return s.Redis.Del(ctx, redisx.KeySellerStats).Err()
}

func (s *Service) seen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, eventID)
	exists, err := redisx.Exists(ctx, s.Redis, key)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}
	return false, s.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
}
