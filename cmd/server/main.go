package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"khatapos/internal/config"
	"khatapos/internal/infra"
	"khatapos/internal/router"
	"khatapos/internal/store"
	"khatapos/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// KV backend: Redis for shops with a server box, SQLite for single-device
	// installs. Async jobs (receipts, statements) need the Redis queue and are
	// disabled on sqlite.
	var kv store.KV
	var rdb *redis.Client
	switch cfg.StoreBackend {
	case "redis":
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		kv = infra.NewRedisKV(rdb)
	case "sqlite":
		sqliteKV, err := infra.NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite store")
		}
		kv = sqliteKV
	default:
		log.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown STORE_BACKEND")
	}

	ledger := store.New(kv)
	if err := ledger.Open(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to open ledger store")
	}

	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		receiptW := worker.NewReceiptWorker(ledger, cfg.ShopName, cfg.PDFStoragePath)
		statementW := worker.NewStatementWorker(ledger, mailer, cfg.ShopName, cfg.PDFStoragePath)
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
			worker.QueueReceipt:   receiptW.Process,
			worker.QueueStatement: statementW.Process,
		})
	} else {
		log.Warn().Msg("no redis queue configured, receipts and statements disabled")
	}

	parserCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, ledger, rdb, parserCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("khatapos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
