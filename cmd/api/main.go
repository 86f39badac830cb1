package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rasoisetu/marketplace/internal/catalog"
	"github.com/rasoisetu/marketplace/internal/config"
	"github.com/rasoisetu/marketplace/internal/events"
	"github.com/rasoisetu/marketplace/internal/httpx"
	kafkax "github.com/rasoisetu/marketplace/internal/kafka"
	"github.com/rasoisetu/marketplace/internal/orders"
	"github.com/rasoisetu/marketplace/internal/postgres"
	"github.com/rasoisetu/marketplace/internal/redisx"
	"github.com/rasoisetu/marketplace/internal/sellers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores: postgres when a DSN is configured, in-memory otherwise.
	var (
		catalogStore catalog.Store
		sellerStore  sellers.Store
		orderStore   orders.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		catalogStore = &catalog.PostgresStore{DB: db}
		sellerStore = &sellers.PostgresStore{DB: db}
		orderStore = &orders.PostgresStore{DB: db}
	} else {
		log.Println("POSTGRES_DSN not set, using in-memory stores")
		catalogStore = catalog.NewMemoryStore()
		sellerStore = sellers.NewMemoryStore()
		orderStore = orders.NewMemoryStore()
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pOrderPlaced := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderPlaced, 1024)
	pOrderStatus := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderStatus, 1024)
	pSellerSubmitted := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicSellerSubmitted, 1024)
	pSellerStatus := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicSellerStatus, 1024)
	producers := []*kafkax.Producer{pOrderPlaced, pOrderStatus, pSellerSubmitted, pSellerStatus}
	for _, p := range producers {
		p.Start(ctx)
	}

	registry := &sellers.Registry{
		Store:             sellerStore,
		SubmittedProducer: pSellerSubmitted,
		StatusProducer:    pSellerStatus,
		ServiceName:       cfg.ServiceName,
	}
	ledger := &orders.Ledger{
		Store:          orderStore,
		Catalog:        catalogStore,
		PlacedProducer: pOrderPlaced,
		StatusProducer: pOrderStatus,
		ServiceName:    cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Store: catalogStore}).Register(router)
	(&httpx.SellersHandler{Registry: registry, Redis: rdb}).Register(router)
	(&httpx.OrdersHandler{Ledger: ledger, Redis: rdb}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // stop intake, flush buffered events
	}
	for _, p := range producers {
		p.WaitClosed()
	}
	cancel()
}
