package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dragonya/internal/config"
	"dragonya/internal/infra"
	"dragonya/internal/metrics"
	"dragonya/internal/router"
	"dragonya/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = secretEfimero()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	imagenes, err := infra.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL, cfg.MaxUploadBytes())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload dir")
	}

	metrics.Register(prometheus.DefaultRegisterer)

	// Email worker pool: consumers and the retry cron stop when ctx is cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cbCfg := infra.DefaultCBConfig()
	cbCfg.OnStateChange = func(name string, _, to infra.CBState) {
		metrics.RecordCircuitState(name, int(to))
	}
	smtpCB := infra.NewCircuitBreaker(cbCfg)
	emailWorker := worker.NewEmailWorker(infra.NewMailer(cfg), smtpCB, cfg.URLFrontend)
	pool := worker.NewPool(rdb, emailWorker, worker.PoolConfig{Workers: cfg.WorkerPoolSize})
	pool.Start(ctx)

	r := router.New(cfg, router.Deps{
		DB:          db,
		Redis:       rdb,
		Imagenes:    imagenes,
		Notificador: worker.NewDispatcher(rdb),
		SMTPBreaker: smtpCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("DRAGONYA backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

func secretEfimero() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("failed to generate JWT secret")
	}
	return hex.EncodeToString(b)
}
