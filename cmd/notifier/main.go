package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rasoisetu/marketplace/internal/config"
	"github.com/rasoisetu/marketplace/internal/events"
	kafkax "github.com/rasoisetu/marketplace/internal/kafka"
	"github.com/rasoisetu/marketplace/internal/notifier"
	"github.com/rasoisetu/marketplace/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "marketplace-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	subs := []struct {
		topic   string
		handler kafkax.Handler
	}{
		{events.TopicOrderPlaced, svc.HandleOrderEvent},
		{events.TopicOrderStatus, svc.HandleOrderEvent},
		{events.TopicSellerSubmitted, svc.HandleSellerEvent},
		{events.TopicSellerStatus, svc.HandleSellerEvent},
	}
	for _, sub := range subs {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, sub.topic, workers)
		go func(topic string, c *kafkax.Consumer, h kafkax.Handler) {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := c.Start(ctx, h); err != nil {
				log.Printf("consumer %s exit: %v", topic, err)
				cancel()
			}
		}(sub.topic, cons, sub.handler)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
