package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"penside/internal/config"
	"penside/internal/db"
	"penside/internal/db/mock"
	applog "penside/internal/log"
	"penside/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.LogLevel, "error", err)
		os.Exit(1)
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		applog.Error(ctx, "failed to open database", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(ctx, "shutting down http server")
	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if cfg.Database.UseMock {
		applog.Info(ctx, "using seeded in-memory mock database")
		return mock.New(ctx)
	}
	return db.Configure(cfg.Database)
}
