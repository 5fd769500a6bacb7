// Package main is the entry point for the driver app API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fleetbook/driverapp/apidoc"
	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/bootstrap"
	"github.com/fleetbook/driverapp/internal/config"
	"github.com/fleetbook/driverapp/internal/handler"
	"github.com/fleetbook/driverapp/internal/middleware"
	"github.com/fleetbook/driverapp/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file anywhere above the working directory fills in unset variables.
	envFile := config.LoadDotEnvUp(0)
	cfg, err := config.Load()
	if err != nil {
		// The default logger writes plain text to stderr until ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	if envFile != "" {
		slog.Info("loaded env file", "path", envFile)
	}

	// --- Sources ----------------------------------------------------------
	ctx := context.Background()
	sources, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open sources", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	defer sources.Close()

	sessions := service.NewSessions(func() *service.DriverApp {
		return sources.NewDriverApp(time.Now)
	}, cfg.SessionIdleTTL, time.Now)
	notifier := service.NewNotificationService(sources.Notifications, sources.Session, time.Now, logger)
	server := handler.NewServer(sessions, notifier, apidoc.OpenAPI, logger)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → SlogLogger → Recoverer → CORS → body limit → auth.
	// The logger wraps auth so the request line carries the user id.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewAuthenticator(auth.NewTokens(cfg.JWTSecret, 0)))
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a full refresh against a slow fleet backend.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FleetAPITimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "source", cfg.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
