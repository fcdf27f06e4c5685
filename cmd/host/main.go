package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/coophost-go/internal/api"
	"github.com/mcoot/coophost-go/internal/config"
	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/engine/sim"
	"github.com/mcoot/coophost-go/internal/factory"
	"github.com/mcoot/coophost-go/internal/services/session"
	redisstorage "github.com/mcoot/coophost-go/internal/storage/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coophost",
		Short: "Control plane for a cooperative multiplayer session host",
		Long: `coophost keeps a small set of networked participants synchronized through
the recurring day-transition protocol, authorizes privileged actions, routes
the in-band chat command protocol and publishes machine-readable session
status.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var dayLength time.Duration

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the host with the simulated engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), dayLength)
		},
	}

	serveCmd.Flags().DurationVar(&dayLength, "day-length", 10*time.Minute, "Wall-clock length of one simulated day")

	return serveCmd
}

func serve(ctx context.Context, dayLength time.Duration) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return err
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		MaxPlayers:  cfg.MaxPlayers,
		Version:     cfg.Version,
		StatusFile:  cfg.StatusFile,
		Session: session.Config{
			ForceNewSession: cfg.ForceNewSession,
			NewSession: engine.NewSessionConfig{
				Name:       cfg.SessionName,
				MaxPlayers: cfg.MaxPlayers,
			},
			HealthInterval: cfg.HealthInterval,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("HOST_REDIS_URL required when HOST_STORAGE=redis")
			return errors.New("missing HOST_REDIS_URL")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.Namespace = cfg.SaveNamespace
		factoryCfg.RedisConfig = &redisCfg
	}

	// The simulated engine stands in for the real game runtime
	simEngine := sim.New(sim.Config{DayLength: dayLength}, logger)

	app, err := factory.New(simEngine, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	// Create status API router
	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Publisher: app.Publisher,
		Manager:   app.Manager,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.HTTPPort
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-runCtx.Done():
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("host started", slog.String("addr", server.Addr()))

	// Drive the control plane from the simulated engine
	engineErrCh := make(chan error, 1)
	go func() {
		engineErrCh <- simEngine.Run(runCtx, app.Manager)
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case err := <-engineErrCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("engine error", slog.String("error", err.Error()))
			return err
		}
	case <-runCtx.Done():
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("host stopped")
	return nil
}
