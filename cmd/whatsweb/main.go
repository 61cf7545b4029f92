package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsweb/internal/config"
	"whatsweb/internal/retry"
	"whatsweb/internal/service"
	"whatsweb/internal/tracing"
	"whatsweb/pkg/provider"
	"whatsweb/pkg/provider/types"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes sensitive information)")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("whatsweb %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting whatsweb")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.Info("Verbose logging enabled - sensitive information will be logged")
	} else if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			if level > logrus.InfoLevel {
				level = logrus.InfoLevel
			}
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	tracingManager := tracing.NewManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	client := provider.NewClient(types.ClientConfig{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: time.Duration(cfg.Provider.TimeoutSec) * time.Second,
	})

	events := provider.NewEventStream(cfg.Provider.BaseURL, cfg.Provider.APIKey, logger)

	// The restart hook tears down and re-dials the event stream so the
	// provider issues a fresh pairing code after a logout.
	restart := func(_ context.Context) {
		events.Stop()
		if err := events.Start(ctx); err != nil {
			logger.WithError(err).Error("Failed to restart event stream")
		}
	}

	sessionManager := service.NewSessionManager(client, logger, restart, 0)

	events.RegisterEventHandler(types.EventQR, sessionManager.HandleQREvent)
	events.RegisterEventHandler(types.EventStatus, sessionManager.HandleStatusEvent)
	events.RegisterEventHandler(types.EventMessage, sessionManager.HandleMessageEvent)
	events.RegisterEventHandler(types.EventAck, sessionManager.HandleAckEvent)

	if err := events.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event stream: %w", err)
	}
	defer events.Stop()

	policy := retry.Policy{
		MaxAttempts: cfg.Fetch.MaxAttempts,
		Delay:       time.Duration(cfg.Fetch.RetryDelayMs) * time.Millisecond,
	}
	chatService := service.NewChatService(client, logger)
	messageService := service.NewMessageService(client, policy, cfg.Fetch.MediaConcurrency, logger)

	server := NewServer(cfg, chatService, messageService, sessionManager, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
