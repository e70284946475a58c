package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fashion-dashboard/internal/config"
	"fashion-dashboard/internal/errors"
	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/middleware"
	"fashion-dashboard/internal/observability"
	"fashion-dashboard/internal/server"
	"fashion-dashboard/internal/services"
)

const (
	renderTimeout  = 10 * time.Second
	datasetTimeout = 2 * time.Minute
	cacheMaxAge    = "public, max-age=300"
	appVersion     = "1.0.0"
)

var datasetFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fashion-dashboard",
		Short:         "Sales and inventory dashboard for fashion retail",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().StringVar(&datasetFile, "dataset", "", "dataset file to load (overrides DATASET_FILE)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the dashboard over HTTP",
			RunE:  runServe,
		},
		newReportCmd(),
	)
	return rootCmd
}

// setup loads configuration, the logger and the dataset shared by every
// subcommand.
func setup(ctx context.Context) (*config.Config, *slog.Logger, *services.Analytics, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return nil, nil, nil, err
	}
	if datasetFile != "" {
		cfg.Dataset.File = datasetFile
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	analytics := services.NewAnalytics()
	loadCtx, cancel := context.WithTimeout(ctx, datasetTimeout)
	defer cancel()

	start := time.Now()
	opts := services.LoadOptions{Sheet: cfg.Dataset.Sheet, CacheDir: cfg.Dataset.CacheDir}
	if err := analytics.LoadFromFile(loadCtx, cfg.Dataset.File, opts); err != nil {
		logger.Error("failed to load dataset", "file", cfg.Dataset.File, "error", err)
		return nil, nil, nil, datasetError(err)
	}
	logger.Info("dataset loaded successfully",
		"file", cfg.Dataset.File,
		"records", len(analytics.Records()),
		"duration", time.Since(start),
	)

	return cfg, logger, analytics, nil
}

// datasetError separates a dataset that violates the column contract from
// one that could not be read at all.
func datasetError(err error) error {
	switch {
	case stderrors.Is(err, services.ErrMissingColumns),
		stderrors.Is(err, services.ErrNoRecords),
		stderrors.Is(err, services.ErrUnsupportedFormat):
		return errors.ValidationWrap(err, "dataset does not match the expected layout")
	default:
		return errors.InternalWrap(err, "failed to load dataset")
	}
}

func newGenerator(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*insights.Generator, error) {
	questions := insights.DefaultQuestions
	if cfg.Insights.QuestionsFile != "" {
		loaded, err := insights.LoadQuestions(cfg.Insights.QuestionsFile)
		if err != nil {
			return nil, err
		}
		questions = loaded
	}

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, insights will report an error per question")
	}

	return insights.NewGenerator(insights.NewCompleter(cfg.OpenAI), questions,
		insights.WithConcurrency(cfg.Insights.Concurrency),
		insights.WithLogger(logger),
		insights.WithObserver(func(res insights.Result, d time.Duration) {
			metrics.ObserveInsight(string(res.Status), string(res.ErrorKind), d)
		}),
	), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, analytics, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("starting application",
		"version", appVersion,
		"config", cfg,
	)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		metrics.SetDatasetRecords(len(analytics.Records()))
	}

	generator, err := newGenerator(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to load insight questions", "error", err)
		return err
	}

	pages := &pageHandlers{analytics: analytics, questions: generator.Questions(), logger: logger}
	templateHandlers := &server.TemplateHandlers{
		Dashboard: pages.handleDashboard,
		Insights:  pages.handleInsights,
	}

	var opts []server.Option
	if metrics != nil {
		opts = append(opts, server.WithMetrics(metrics, cfg.Metrics.Path))
	}
	srv := server.NewServer(analytics, generator, logger, templateHandlers, opts...)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(metrics, srv.Route),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}
