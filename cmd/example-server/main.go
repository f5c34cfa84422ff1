// Package main provides an example resource server protected by the One
// Account authentication middleware. It wires configuration, the client,
// and the HTTP stack, and manages the server lifecycle with graceful
// shutdown.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/one-account-io/oneaccount-go/internal/config"
	"github.com/one-account-io/oneaccount-go/internal/httpserver"
	"github.com/one-account-io/oneaccount-go/pkg/oneaccount"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.Info("server configuration loaded",
		"addr", cfg.Addr,
		"api_base_url", cfg.APIBaseURL,
		"client_id", cfg.ClientID,
		"default_required_scopes", cfg.DefaultRequiredScopes,
	)

	// Create the One Account client
	client, err := oneaccount.New(oneaccount.Config{
		ClientID:              cfg.ClientID,
		ClientSecret:          cfg.ClientSecret,
		APIBaseURL:            cfg.APIBaseURL,
		DefaultRequiredScopes: cfg.DefaultRequiredScopes,
		DisableErrorResponses: cfg.DisableErrorResponses,
	}, oneaccount.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to create oneaccount client: %v", err)
	}

	// Wire the router
	router := chi.NewRouter()
	router.Use(httpserver.Recoverer(logger))
	router.Use(httpserver.RequestLogger(logger))

	router.Method(http.MethodGet, "/healthz", httpserver.HealthHandler())

	// Protected routes: everything under the group re-validates each
	// request against the provider.
	router.Group(func(r chi.Router) {
		r.Use(client.Auth(oneaccount.Options{}))
		r.Get("/me", handleMe)
	})

	// Routes requiring an extra scope on top of the defaults.
	router.Group(func(r chi.Router) {
		r.Use(client.Auth(oneaccount.Options{
			RequiredScopes: []string{"billing"},
		}))
		r.Get("/billing", handleBilling)
	})

	server := httpserver.New(httpserver.Config{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, router)

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in background goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr)
		if err := server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping server gracefully...")
	case err := <-serverErrCh:
		slog.Error("server error", "error", err)
		stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped successfully")
}

// handleMe echoes the authorization context attached by the middleware.
func handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := oneaccount.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// handleBilling is a placeholder for a scope-protected resource.
func handleBilling(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
