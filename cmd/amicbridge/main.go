package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/layer-3/amicbridge/adapters/events"
	"github.com/layer-3/amicbridge/adapters/metrics"
	"github.com/layer-3/amicbridge/adapters/signer"
	"github.com/layer-3/amicbridge/adapters/store"
	"github.com/layer-3/amicbridge/config"
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/logging"
	"github.com/layer-3/amicbridge/ports"
	"github.com/layer-3/amicbridge/service"
	transport "github.com/layer-3/amicbridge/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// demoRecord is served by the memory store so a fresh instance has one known wallet
var demoRecord = core.TrustRecord{
	WalletAddress:  "0x1234...abcd",
	VerifiedWallet: true,
	CompletedLoans: 3,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Warn(logger)

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		redisClient = client
	}

	records, closeStore, err := newTrustRecordStore(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeStore()

	eventPub, err := newEventPublisher(cfg, redisClient, logger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPrometheus(registry)

	opts := []service.VerificationOption{service.WithVerificationMetrics(m)}
	if cfg.ReplayGuard {
		var nonces ports.NonceStore = store.NewMemoryNonceStore()
		if redisClient != nil {
			nonces = store.NewRedisNonceStore(redisClient)
		}
		opts = append(opts, service.WithReplayGuard(nonces, cfg.NonceTTL))
	}

	verification := service.NewVerificationService(signer.NewEthVerifier(), eventPub, logger, opts...)
	trust := service.NewTrustService(records, m, logger)

	router := transport.SetupRouter(verification, trust, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreBackend),
			zap.String("events", cfg.EventsBackend),
			zap.Bool("replay_guard", cfg.ReplayGuard),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newTrustRecordStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (ports.TrustRecordStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		return store.NewRedisStore(redisClient), func() {}, nil
	case config.StorePostgres:
		pool, err := store.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool.Close, nil
	case config.StoreMemory:
		return store.NewMemoryStore(demoRecord), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newEventPublisher(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (ports.EventPublisher, error) {
	if cfg.EventsBackend != config.EventsRedis {
		return events.NopPublisher{}, nil
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logging.NewWatermillAdapter(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis publisher: %w", err)
	}

	return events.NewWatermillPublisher(publisher), nil
}
