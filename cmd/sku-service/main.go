package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/api"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/application"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/config"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/domain"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/infrastructure/cache"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/infrastructure/db"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/infrastructure/dynamo"
	"github.com/RodolfoDevApp/eventshop-sku-go/internal/infrastructure/messaging"
	outboxinfra "github.com/RodolfoDevApp/eventshop-sku-go/internal/infrastructure/outbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Str("backend", cfg.StoreBackend).
		Str("port", cfg.HttpPort).
		Msg("starting sku service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	var (
		store  domain.SkuStore
		pgConn *sqlx.DB
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgConn, err = db.Open(cfg.PgDsn, cfg.PgMaxOpenConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open postgres")
		}
		defer pgConn.Close()

		if err := db.Migrate(pgConn.DB); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations completed successfully")
		store = db.NewPgSkuRepository(pgConn)

	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.AwsRegion, cfg.DynamoEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create dynamodb client")
		}
		tableCfg := dynamo.Config{
			Table:          cfg.DynamoTable,
			WarehouseIndex: cfg.DynamoWarehouseIndex,
			ItemIndex:      cfg.DynamoItemIndex,
		}
		if err := dynamo.EnsureTable(ctx, client, tableCfg); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure dynamodb table")
		}
		store = dynamo.NewSkuRepository(client, tableCfg)
	}

	opts := []application.SkuServiceOption{application.WithStoreTimeout(cfg.StoreTimeout)}

	// Cache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisClient.Close()
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected successfully")
		opts = append(opts, application.WithCache(cache.NewRedisSkuCache(redisClient, cfg.CacheTTL)))
	}

	// Outbox writer + dispatcher + scheduler (solo con postgres)
	if cfg.RabbitUri != "" && pgConn != nil {
		outboxRepo := db.NewPgOutboxRepository(pgConn)
		producer := messaging.NewEventsProducer(cfg.RabbitUri)

		dispatcher := outboxinfra.NewDispatcher(
			outboxRepo,
			producer,
			cfg.OutboxMaxRetry,
			cfg.OutboxBatchSize,
		)
		outboxinfra.NewScheduler(dispatcher, cfg.OutboxIntervalSec).Start(ctx)
		opts = append(opts, application.WithOutbox(application.NewOutboxWriter(outboxRepo)))
	} else if cfg.RabbitUri != "" {
		log.Warn().Str("backend", cfg.StoreBackend).Msg("import events need the postgres outbox, skipping")
	}

	skuService := application.NewSkuService(store, cfg.StoreBackend, opts...)

	// Suscripciones
	if cfg.RabbitUri != "" {
		commandsBus := messaging.NewCommandsConsumer(cfg.RabbitUri, "sku.import-commands.v1")
		if err := messaging.RegisterImportSubscriptions(
			ctx,
			commandsBus,
			application.NewSkuImportRequestedHandler(skuService),
		); err != nil {
			log.Fatal().Err(err).Msg("failed to start sku.commands subscriptions")
		}
	}

	// HTTP API
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewServer(skuService).NewRouter()

	httpSrv := &http.Server{
		Addr:    ":" + cfg.HttpPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("HTTP listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Esperar señal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down sku service")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
