package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/ledgerbook/internal/api"
	"github.com/example/ledgerbook/internal/config"
	"github.com/example/ledgerbook/internal/ledger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store ledger.Store
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err = ledger.OpenSQLite(cfg.DSN)
	case config.DriverPostgres:
		store, err = ledger.OpenPostgres(ctx, cfg.DSN)
	}
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := seedEntityName(ctx, store, cfg.EntityName); err != nil {
		logger.Error("failed to seed entity name", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(store)
	router := api.NewRouter(api.Dependencies{
		Logger: logger,
		Ledger: svc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		logger.Info("ledgerd listening", "addr", cfg.Addr, "driver", cfg.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

// seedEntityName writes the configured entity name into settings when no
// name is stored yet. A name already in the store wins over config.
func seedEntityName(ctx context.Context, store ledger.Store, name string) error {
	if name == "" {
		return nil
	}
	_, err := store.GetSettingStr(ctx, ledger.EntityNameSetting)
	var nf *ledger.NotFoundError
	if errors.As(err, &nf) {
		return store.SetSettingStr(ctx, ledger.EntityNameSetting, name)
	}
	return err
}
