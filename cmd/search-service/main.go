// search-service — recurring job search and email notification engine.
//
// Loads active search configs from Postgres, registers a cron trigger per
// config, and serves /health and /metrics while runs execute in the
// background.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dailyjobs/search-service/internal/config"
	"dailyjobs/search-service/internal/db"
	"dailyjobs/search-service/internal/engine"
	"dailyjobs/search-service/internal/mailer"
	"dailyjobs/search-service/internal/search"
	"dailyjobs/search-service/internal/store"
	"dailyjobs/search-service/internal/telemetry"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	sender := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, log)
	if !sender.Configured() {
		log.Warn("smtp not configured, notifications disabled")
	}

	source := search.NewSource(search.NewGoogleClient(), search.NewSynthetic(), log)
	lock := db.NewRunLock(rdb, cfg.RunLockTTL)
	registry := engine.NewRegistry(log)
	coord := engine.NewCoordinator(st, source, sender, lock, log)
	eng := engine.New(st, registry, coord, log)
	eng.SetRunTimeout(cfg.RunTimeout)

	if err := eng.Startup(ctx); err != nil {
		return err
	}
	defer eng.Stop()

	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{Status: "ok", Service: "search-service"})
}
