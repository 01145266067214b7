package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"go-linkedin-scraper/internal/config"
	"go-linkedin-scraper/internal/httpapi"
	"go-linkedin-scraper/internal/metrics"
	"go-linkedin-scraper/internal/reporter"
	"go-linkedin-scraper/internal/scraper/linkedin"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(reg)

	handler := &httpapi.Handler{
		Runner:  linkedin.New(cfg, linkedin.NewLauncher(cfg.Browser), rec, rec),
		Metrics: rec,
		Timeout: cfg.Server.RequestTimeout,
	}
	if cfg.Telegram.Enabled() {
		rep, err := reporter.NewTelegramReporter(cfg.Telegram)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			log.Println("🤖 Telegram notifications enabled.")
			handler.Notifier = rep
		}
	}

	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Gatherer: reg,
		Limiter:  httpapi.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down, waiting for running scrapes...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("🏁 Server stopped.")
	return nil
}
