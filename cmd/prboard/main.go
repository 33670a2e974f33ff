package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prboard/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/prboard/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/prboard/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/prboard/internal/adapter/driving/web"
	"github.com/ericfisherdev/prboard/internal/application"
	"github.com/ericfisherdev/prboard/internal/config"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
	"github.com/ericfisherdev/prboard/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Install the process logger.
	logger, closeLog, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeLog(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "error closing log file:", closeErr)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"github_api_url", cfg.GitHubAPIURL,
		"token_storage", cfg.HasSecretKey(),
		"http_cache", cfg.HTTPCache,
		"rate_limit_wait", cfg.RateLimitWait,
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 5. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 6. Wire the credential store and the GitHub client.
	// A stored token takes priority over PRBOARD_GITHUB_TOKEN.
	credentialStore, err := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	if err != nil {
		return err
	}

	newClient := func(token string) (driven.GitHubClient, error) {
		return githubadapter.NewClient(githubadapter.Options{
			Token:         token,
			APIBaseURL:    cfg.GitHubAPIURL,
			HTTPCache:     cfg.HTTPCache,
			RateLimitWait: cfg.RateLimitWait,
		})
	}

	provider := application.NewGitHubClientProvider(nil)
	tokenSvc := application.NewTokenService(credentialStore, provider, newClient, cfg.GitHubToken)
	source, err := tokenSvc.Activate(ctx)
	if err != nil {
		return err
	}
	if source == application.TokenSourceNone {
		slog.Warn("no github token configured, calls are unauthenticated until one is provided via the settings page")
	} else {
		slog.Info("github client created", "token_source", source)
	}

	statusSvc := application.NewStatusService(provider)

	// 7. Register API and GUI routes.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(statusSvc, provider, slog.Default())
	apiHandler.RegisterRoutes(mux)

	webHandler := webhandler.NewHandler(statusSvc, tokenSvc, cfg.Notice, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	// No WriteTimeout: a batch runs its lookups sequentially and can take
	// arbitrarily long.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	slog.Info("prboard started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal or server failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
