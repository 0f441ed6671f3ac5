// Package main is the entry point for the sitebuilder API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
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

	"sitebuilder/internal/ai"
	"sitebuilder/internal/cache"
	"sitebuilder/internal/config"
	"sitebuilder/internal/database"
	"sitebuilder/internal/handlers"
	"sitebuilder/internal/middleware"
	"sitebuilder/internal/router"
	"sitebuilder/internal/session"
	"sitebuilder/internal/store"
)

const (
	// authAttemptsPerMinute caps register and login attempts per client IP.
	authAttemptsPerMinute = 10

	authLimitMessage = "Too many sign-in attempts. Please try again later."
	aiLimitMessage   = "Too many generation requests. Please try again later."
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text output in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"llm_provider", cfg.LLMProvider,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	previewCache := cache.NewPreviewCache(valkeyClient, cfg.PreviewTTL)

	dispatcher := ai.NewDispatcher(
		ai.RetryPolicy{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay},
		map[string]ai.ProviderConfig{
			"openai":    {BaseURL: cfg.OpenAIBaseURL, Timeout: cfg.LLMTimeout},
			"anthropic": {BaseURL: cfg.AnthropicBaseURL, Timeout: cfg.LLMTimeout},
		},
	)
	slog.Info("llm providers registered", "available", dispatcher.Available())

	userStore := store.NewUserStore(db)
	websiteStore := store.NewWebsiteStore(db)
	pageStore := store.NewPageStore(db)

	api := handlers.NewAPI(userStore, websiteStore, pageStore, dispatcher, previewCache, handlers.LLMDefaults{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
	})
	auth := handlers.NewAuth(userStore, sessionStore)

	authLimiter := middleware.NewRateLimiter(authAttemptsPerMinute, time.Minute, authLimitMessage)
	defer authLimiter.Stop()
	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute, aiLimitMessage)
	defer aiLimiter.Stop()

	r := router.New(router.Options{
		Sessions:      sessionStore,
		SecureCookies: secureCookies,
		AuthLimiter:   authLimiter,
		AILimiter:     aiLimiter,
	}, api, auth)

	// WriteTimeout covers the worst case of a generation request: every
	// retry attempt running into the provider timeout plus the delays.
	llmBudget := time.Duration(max(cfg.RetryAttempts, 1)) * (cfg.LLMTimeout + cfg.RetryDelay)
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: llmBudget + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
