package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/bot"
	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/console"
	"github.com/xaenox/tube-agent/internal/interpreter"
	"github.com/xaenox/tube-agent/internal/storage"
	"github.com/xaenox/tube-agent/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	agent  *agent.Service
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tube-agent",
		Short:         "Conversational video discovery agent",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app) error {
				if err := a.cfg.RequireToken(); err != nil {
					return err
				}
				b, err := bot.New(a.cfg.Telegram.Token, a.cfg.Telegram.Debug, a.cfg.Telegram.Timeout, a.agent, a.logger)
				if err != nil {
					return err
				}
				a.logger.Info("Bot started")
				return b.Start(ctx)
			})
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app) error {
				return console.New(a.agent, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger).Run(ctx)
			})
		},
	}

	rootCmd.AddCommand(serveCmd, chatCmd)
	rootCmd.RunE = serveCmd.RunE
	return rootCmd
}

// withApp wires config, logging, catalog, storage and the agent, then runs fn
// until it returns or the process is interrupted.
func withApp(parent context.Context, configPath string, fn func(context.Context, *app) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Load the catalog once; it is never refreshed
	videos, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("Failed to load catalog", zap.Error(err), zap.String("path", cfg.Catalog.Path))
		return err
	}
	logger.Info("Catalog loaded",
		zap.Int("videos", len(videos.Videos())),
		zap.Int("categories", len(videos.Categories())))

	// Initialize storage
	logger.Info("Using in-memory storage")
	store := storage.NewMemoryStorage()
	defer store.Close()

	interp := interpreter.NewKeywordInterpreter(videos, cfg.Agent.MaxResults)
	latency := agent.Latency{Base: cfg.Agent.BaseDelay, Jitter: cfg.Agent.Jitter}
	svc := agent.NewService(store, videos, interp, latency, logger)

	if err := fn(ctx, &app{cfg: cfg, logger: logger, agent: svc}); err != nil {
		logger.Error("Agent stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
