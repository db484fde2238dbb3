package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/billing"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/drafts"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server exposing the editor, rendering, AI assist and billing endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending database migrations before serving")
	return cmd
}

// loadConfig reads the --config file and the environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(parent context.Context, cfg *config.Config, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if migrate {
		applied, err := database.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("migrations applied", zap.Strings("versions", applied))
	}

	deps := server.Deps{
		Users:   database,
		Resumes: database,
		Logger:  logger,
	}
	checks := []func(context.Context) error{database.Ping}

	if cfg.Redis.URL != "" {
		client, err := drafts.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		deps.Drafts = drafts.NewRedisStore(client, cfg.Redis.DraftTTL)
		checks = append(checks, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	} else {
		logger.Warn("REDIS_URL not set, drafts are kept in memory")
	}

	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(ctx, llmConfig(cfg.LLM), cfg.LLM.APIKey, logger.Named("llm"))
		if err != nil {
			return fmt.Errorf("failed to create llm client: %w", err)
		}
		defer func() { _ = client.Close() }()
		deps.Assist = assist.NewService(llm.NewBreakerClient(client, breakerConfig(cfg.LLM.Breaker), logger), logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI assist is disabled")
	}

	if cfg.Billing.SecretKey != "" {
		provider, err := billing.NewStripeProvider(cfg.Billing.SecretKey, cfg.Billing.WebhookSecret)
		if err != nil {
			return fmt.Errorf("failed to create billing provider: %w", err)
		}
		deps.Billing = billing.NewService(provider, database, billing.Config{
			SuccessURL: cfg.Billing.SuccessURL,
			CancelURL:  cfg.Billing.CancelURL,
			ReturnURL:  cfg.Billing.ReturnURL,
			Prices:     cfg.Billing.Prices,
		}, logger)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, billing is disabled")
	}

	exporter, err := newExporter(ctx, cfg.Export, logger)
	if err != nil {
		return err
	}
	deps.Export = exporter

	deps.Health = func(ctx context.Context) error {
		var errs []error
		for _, check := range checks {
			errs = append(errs, check(ctx))
		}
		return errors.Join(errs...)
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

// newExporter wires headless Chrome, and MinIO when an endpoint is configured
func newExporter(ctx context.Context, cfg config.ExportConfig, logger *zap.Logger) (*export.Service, error) {
	converter := export.NewChromeConverter(cfg.ChromePath, cfg.Timeout)
	if cfg.MinIO.Endpoint == "" {
		return export.NewService(converter, nil, 0, logger), nil
	}

	store, err := export.NewObjectStore(ctx, cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}
	return export.NewService(converter, store, cfg.MinIO.URLExpiry, logger), nil
}

func llmConfig(cfg config.LLMConfig) *llm.Config {
	c := llm.DefaultConfig()
	for tier, model := range map[llm.ModelTier]string{
		llm.TierLite:     cfg.ModelLite,
		llm.TierStandard: cfg.ModelStandard,
		llm.TierAdvanced: cfg.ModelAdvanced,
	} {
		if model != "" {
			c = c.WithModel(tier, model)
		}
	}
	if cfg.Temperature > 0 {
		c.Temperature = cfg.Temperature
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	return c
}

func breakerConfig(cfg config.BreakerConfig) llm.BreakerConfig {
	b := llm.DefaultBreakerConfig()
	if cfg.FailureThreshold > 0 {
		b.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.MinRequests > 0 {
		b.MinRequests = cfg.MinRequests
	}
	if cfg.OpenTimeout > 0 {
		b.Timeout = cfg.OpenTimeout
	}
	return b
}
