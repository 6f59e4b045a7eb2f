package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/listquery/internal/config"
	"github.com/kailas-cloud/listquery/internal/domain/catalog"
	logpkg "github.com/kailas-cloud/listquery/internal/logger"
	"github.com/kailas-cloud/listquery/internal/metrics"
	dsrepo "github.com/kailas-cloud/listquery/internal/repository/dataset"
	chiTransport "github.com/kailas-cloud/listquery/internal/transport/chi"
	"github.com/kailas-cloud/listquery/internal/usecase/health"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
	"github.com/kailas-cloud/listquery/internal/usecase/timeline"
	"github.com/kailas-cloud/listquery/internal/version"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run the HTTP API server",
		Example: heredoc.Doc(`
			$ listquery serve
			$ PORT=9090 SEED_DIR=./fixtures listquery serve
			$ listquery serve -c ./config/prod.yaml --env prod
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return runServer(cmd.Context(), cfg, opts.env, logger)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting listquery API server",
		zap.String("commit", version.Commit),
		zap.String("built", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("seed_dir", cfg.Datasets.SeedDir),
	)

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	bus := timeline.NewBus()
	defer bus.Close()

	loader := dsrepo.NewLoader(reg, cfg.Datasets.SeedDir, bus, timeline.TopicDatasetChanged, logger)
	if err := loader.LoadAll(ctx); err != nil {
		return err
	}

	timelines := timeline.New(reg.Directory(catalog.Customers), bus)
	records, err := loader.ReadActivities()
	if err != nil {
		return fmt.Errorf("read timeline fixture: %w", err)
	}
	if err := timelines.Import(records); err != nil {
		return fmt.Errorf("import timeline fixture: %w", err)
	}
	logger.Info("Timeline fixture imported", zap.Int("events", len(records)))

	server := chiTransport.NewServer(
		listquery.NewService(reg),
		timelines,
		health.New(reg, bus),
		logger,
		chiTransport.WithPageLimits(cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize),
		chiTransport.WithStreamBuffer(cfg.Timeline.SubscriberBuffer),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Datasets.Watch {
		watcher, err := dsrepo.NewWatcher(loader, time.Duration(cfg.Datasets.DebounceMS)*time.Millisecond, logger)
		if err != nil {
			return fmt.Errorf("watch seed fixtures: %w", err)
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		// Closing the bus ends open event streams so Shutdown can drain.
		bus.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
