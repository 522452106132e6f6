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

	apphttp "storytrain_landing/internal/http"
	"storytrain_landing/internal/http/router"
	"storytrain_landing/internal/landing"
	"storytrain_landing/internal/page"
	"storytrain_landing/internal/rowstore"
	"storytrain_landing/internal/shell"
	"storytrain_landing/platform/config"
	"storytrain_landing/platform/logger"
	"storytrain_landing/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "rowstore_driver", cfg.RowStoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var store rowstore.Store
	if err := withRetry(ctx, log, "row store connection", 5, 2*time.Second, func() error {
		s, err := rowstore.Open(ctx, cfg, log)
		if err != nil {
			return err
		}
		store = s
		return nil
	}); err != nil {
		log.Error("failed to open row store", "error", err)
		panic("failed to open row store: " + err.Error())
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("row store close failed", "error", err)
		}
	}()
	log.Info("row store ready", "configured", cfg.IsRowStoreConfigured())

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Page Sessions
	// ========================================================================

	registry := page.NewRegistry(store, page.Options{
		Log:          log,
		Validator:    val,
		TrackTimeout: cfg.GetTrackTimeout(),
		PhoneRegion:  cfg.GetPhoneRegion(),
	}, cfg.GetSessionTTL(), cfg.GetSessionSweepInterval())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: store,
		Modules: []apphttp.Module{
			landing.NewModule(registry, val, log),
			shell.NewModule(log),
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		registry.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		registry.CloseAll()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
