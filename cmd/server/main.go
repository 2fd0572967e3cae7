package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/commerce/api/handler"
	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/internal/config"
	"github.com/fastygo/commerce/internal/infrastructure/buffer"
	"github.com/fastygo/commerce/internal/infrastructure/kafka"
	"github.com/fastygo/commerce/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/commerce/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/commerce/internal/infrastructure/redis"
	"github.com/fastygo/commerce/internal/middleware"
	"github.com/fastygo/commerce/internal/router"
	"github.com/fastygo/commerce/internal/services"
	"github.com/fastygo/commerce/internal/services/lifecycle"
	"github.com/fastygo/commerce/pkg/httpcontext"
	"github.com/fastygo/commerce/pkg/logger"
	"github.com/fastygo/commerce/pkg/metrics"
	"github.com/fastygo/commerce/repository"
	"github.com/fastygo/commerce/repository/memory"
	"github.com/fastygo/commerce/repository/postgres"
	redisRepo "github.com/fastygo/commerce/repository/redis"
	"github.com/fastygo/commerce/usecase"
	catalogUC "github.com/fastygo/commerce/usecase/catalog"
	orderingUC "github.com/fastygo/commerce/usecase/ordering"
)

type repositories struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    repository.ProductSnapshotCache
	sequence repository.OrderNumberSequence
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		pool        *pgxpool.Pool
		redisClient *goRedis.Client
		repos       repositories
	)

	if cfg.UsesPostgres() {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err = pgInfra.NewPool(appCtx, cfg.Database, cfg.AppName, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})

		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)

		repos = repositories{
			products: postgres.NewProductRepository(pool),
			orders:   postgres.NewOrderRepository(pool),
			cache:    redisRepo.NewProductSnapshotCache(redisClient, cfg.Storage.CatalogCacheTTL),
			sequence: postgres.NewOrderNumberSequence(pool),
		}
		if cfg.Storage.SequenceInRedis {
			repos.sequence = redisRepo.NewOrderNumberSequence(redisClient)
		}
	} else {
		zapLogger.Warn("using in-memory storage; data is lost on restart")
		eventLog := memory.NewEventLog()
		repos = repositories{
			products: memory.NewProductRepository(eventLog),
			orders:   memory.NewOrderRepository(eventLog),
			cache:    memory.NewProductSnapshotCache(),
			sequence: memory.NewOrderNumberSequence(),
		}
	}

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "events")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.RegisterCloser("buffer", bufferStore)

	kafkaClient := kafka.NewClient(cfg.Kafka.Brokers)
	var sink services.MessageSink
	if kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(cfg.Kafka.Topic, zapLogger)
		manager.RegisterCloser("kafka_writer", writer)
		sink = writer
	} else {
		zapLogger.Info("no kafka brokers configured; domain events are logged")
		sink = kafka.NewLogSink(zapLogger)
	}

	mon := monitor.New(monitor.Targets{
		Postgres: pool,
		Redis:    redisClient,
		Buffer:   bufferStore,
		Broker:   kafkaClient,
	}, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	var appMetrics *metrics.Metrics
	if cfg.HTTP.EnableMetrics {
		appMetrics = metrics.New("commerce")
	}

	relay := services.NewEventRelay(
		bufferStore,
		sink,
		mon,
		appMetrics,
		zapLogger,
		services.RelayConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	relay.Start()
	manager.Register("event_relay", func(ctx context.Context) error {
		relay.Stop(ctx)
		return nil
	})

	policy, err := pricingPolicy(cfg.Ordering)
	if err != nil {
		zapLogger.Fatal("invalid pricing configuration", zap.Error(err))
	}

	retry := usecase.NewConflictRetrier(cfg.Ordering.ConflictRetryAttempts, appMetrics, zapLogger)
	catalogUseCase := catalogUC.New(repos.products, repos.cache, relay, retry, zapLogger)
	orderingUseCase := orderingUC.New(
		repos.orders,
		repos.sequence,
		catalogUC.NewAvailability(repos.products, repos.cache, zapLogger),
		relay,
		orderingUC.Options{
			Service:             domain.NewOrderDomainService(policy),
			AvailabilityTimeout: cfg.Ordering.AvailabilityTimeout,
			Retry:               retry,
		},
		zapLogger,
	)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Product: apiHandler.NewProductHandler(catalogUseCase, ctxAdapter, zapLogger),
		Order:   apiHandler.NewOrderHandler(orderingUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, cfg.Storage.Driver, ctxAdapter, zapLogger),
	}
	r := router.New(handlers, appMetrics)

	server := &fasthttp.Server{
		Handler:      router.Wrap(r.Handler, middleware.Observe(appMetrics, zapLogger)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
		)
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	select {
	case <-appCtx.Done():
	case err := <-manager.Failed():
		zapLogger.Error("shutting down after component failure", zap.Error(err))
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func pricingPolicy(cfg config.OrderingConfig) (domain.PricingPolicy, error) {
	minimum, err := domain.ParseMoney(cfg.MinimumOrderAmount, cfg.Currency)
	if err != nil {
		return domain.PricingPolicy{}, err
	}
	threshold, err := domain.ParseMoney(cfg.FreeShippingThreshold, cfg.Currency)
	if err != nil {
		return domain.PricingPolicy{}, err
	}
	shipping, err := domain.ParseMoney(cfg.StandardShippingCost, cfg.Currency)
	if err != nil {
		return domain.PricingPolicy{}, err
	}
	return domain.PricingPolicy{
		MinimumOrderAmount:    minimum,
		FreeShippingThreshold: threshold,
		StandardShippingCost:  shipping,
	}, nil
}
