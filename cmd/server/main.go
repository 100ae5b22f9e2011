// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"skyvault/internal/extraction"
	"skyvault/internal/normalize"
	"skyvault/internal/notify"
	"skyvault/internal/pipeline"
	"skyvault/internal/pipeline/metrics"
	"skyvault/internal/pipeline/store/run"
	"skyvault/internal/platform/config"
	"skyvault/internal/platform/httpserver"
	"skyvault/internal/platform/logger"
	platformredis "skyvault/internal/platform/redis"
	"skyvault/internal/render"
	httptransport "skyvault/internal/transport/http"
	"skyvault/internal/validation"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var store pipeline.RunStore = run.NewMemoryStore()
	var health httptransport.HealthChecker
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable, falling back to memory run store", "error", err)
	} else if redisClient != nil {
		store = run.NewRedisStore(redisClient.Client)
		health = redisClient
		defer redisClient.Close()
	}

	service := pipeline.NewService(pipeline.ServiceConfig{
		Backend:        extraction.NewAnthropic(extraction.Config(cfg.Anthropic)),
		Renderer:       render.NewPDF(cfg.OutputDir),
		Notifier:       notify.NewEmail(notify.SMTPConfig(cfg.SMTP)),
		Store:          store,
		Normalizer:     normalize.New(normalize.WithTotalTolerance(cfg.TotalTolerance)),
		Engine:         validation.NewEngine(),
		Metrics:        metrics.New(),
		Logger:         log,
		ExtractTimeout: cfg.ExtractTimeout,
		DealingRep:     cfg.DealingRep,
	})

	handler := httptransport.NewHandler(service, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, log, health))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting skyvault-kyc", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
