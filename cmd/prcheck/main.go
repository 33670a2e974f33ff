package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prboard/internal/adapter/driven/github"
	"github.com/ericfisherdev/prboard/internal/adapter/driving/cli"
	"github.com/ericfisherdev/prboard/internal/application"
	"github.com/ericfisherdev/prboard/internal/config"
	"github.com/ericfisherdev/prboard/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "prcheck:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Per-link failures already appear in the output, so only errors reach
	// the console unless debug logging was requested.
	level := cfg.LogLevel
	if level > slog.LevelDebug {
		level = max(level, slog.LevelError)
	}
	logger, closeLog, err := logging.Setup(logging.Options{Level: level, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // best effort on exit
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newChecker := func(token, apiURL string) (cli.Checker, error) {
		client, err := githubadapter.NewClient(githubadapter.Options{
			Token:         token,
			APIBaseURL:    apiURL,
			HTTPCache:     cfg.HTTPCache,
			RateLimitWait: cfg.RateLimitWait,
		})
		if err != nil {
			return nil, err
		}
		return application.NewStatusService(application.NewGitHubClientProvider(client)), nil
	}

	cmd := cli.NewRootCommand(newChecker, cli.Defaults{Token: cfg.GitHubToken, APIURL: cfg.GitHubAPIURL})
	return cmd.ExecuteContext(ctx)
}
