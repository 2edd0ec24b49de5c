package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/bootstrap"
	"github.com/example/seat-planner/internal/config"
	httptransport "github.com/example/seat-planner/internal/http"
	"github.com/example/seat-planner/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.NewLogger(os.Stdout, slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := bootstrap.NewLogger(os.Stdout, cfg.Level())

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("seat planner stopped", "error", err, "error_kind", application.ErrorKind(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectorSet := metrics.New(registry)

	svc, err := bootstrap.NewPlanService(ctx, store, collectorSet, logger)
	if err != nil {
		return fmt.Errorf("load planner document: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTPPort))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", cfg.HTTPPort, err)
	}

	logger.Info("seat planner API listening", "addr", listener.Addr().String(), "store", cfg.Store)
	return serve(ctx, listener, newHandler(svc, registry, collectorSet, cfg.MaxBodyBytes, logger), logger)
}

func newHandler(svc *application.PlanService, gatherer prometheus.Gatherer, recorder httptransport.HTTPRecorder, maxBodyBytes int64, logger *slog.Logger) http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Plan:    httptransport.NewPlanHandler(svc, maxBodyBytes, logger),
		Rooms:   httptransport.NewRoomHandler(svc, logger),
		Seats:   httptransport.NewSeatHandler(svc, logger),
		People:  httptransport.NewPersonHandler(svc, logger),
		Health:  httptransport.NewHealthHandler(svc, logger),
		Metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.Metrics(recorder),
			httptransport.RequestLogger(logger),
		},
	})
}

// serve runs the server on listener until ctx is cancelled, then shuts it
// down gracefully.
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server encountered error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		logger.Info("seat planner API stopped")
		return nil
	})
	return g.Wait()
}
