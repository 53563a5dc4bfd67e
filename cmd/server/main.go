package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"feedpulse/backend/internal/config"
	"feedpulse/backend/internal/db"
	"feedpulse/backend/internal/feed"
	"feedpulse/backend/internal/handler"
	transport "feedpulse/backend/internal/http"
	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/metrics"
	"feedpulse/backend/internal/network"
	"feedpulse/backend/internal/repository"
	"feedpulse/backend/internal/scheduler"
	"feedpulse/backend/internal/service"
	"feedpulse/backend/internal/snowflake"
)

const shutdownTimeout = 10 * time.Second

// @title feedpulse API
// @version 1.0
// @description Periodic RSS/Atom ingestion service.
// @BasePath /api
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Periodic RSS/Atom ingestion service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides FEEDPULSE_CONFIG)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	load := func() (config.Config, error) {
		if configPath != "" {
			if err := os.Setenv("FEEDPULSE_CONFIG", configPath); err != nil {
				return config.Config{}, err
			}
		}
		cfg, err := config.Load()
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger.Init(logger.ParseLevel(cfg.LogLevel))
		return cfg, nil
	}

	cmd.AddCommand(serveCmd(load), fetchCmd(load), repairCmd(load), versionCmd())
	return cmd
}

func serveCmd(load func() (config.Config, error)) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the recurring ingestion job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides FEEDPULSE_ADDR)")
	return cmd
}

func fetchCmd(load func() (config.Config, error)) *cobra.Command {
	var owner int64
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one ingestion pass and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			var ownerID *int64
			if cmd.Flags().Changed("owner") {
				ownerID = &owner
			}
			report, err := a.ingest.Run(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			for _, f := range report.Feeds {
				line := fmt.Sprintf("%-14s %s new=%d skipped=%d", f.Status, f.SeedURL, f.NewPosts, f.SkippedEntries)
				if f.Err != nil {
					line += " error=" + f.Err.Error()
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d feeds, %d new posts, %d skipped\n", report.RunID, len(report.Feeds), report.NewPosts, report.Skipped)
			if !report.Success() {
				return errors.New("run incomplete: posts lost to a failed commit or the run was cancelled")
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&owner, "owner", 0, "Only process this owner's subscriptions")
	return cmd
}

func repairCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Re-resolve stored feed base URLs and move posts to the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.repair.RepairBaseURLs(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", config.AppName, config.AppVersion)
		},
	}
}

// app holds the wired services shared by every command.
type app struct {
	db            *sql.DB
	metrics       *metrics.Ingest
	ingest        service.IngestService
	repair        service.RepairService
	subscriptions service.SubscriptionService
	posts         service.PostService
	readLogs      service.ReadLogService
}

func newApp(cfg config.Config) (*app, error) {
	if err := snowflake.Init(cfg.NodeID); err != nil {
		return nil, fmt.Errorf("init snowflake: %w", err)
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)
	readLogRepo := repository.NewReadLogRepository(dbConn)

	validator := network.NewValidator(nil)
	clients := network.NewClientFactory(cfg.ProxyURL)
	fetcher := network.NewSafeFetcher(validator, clients, cfg.HostInterval)
	m := metrics.New()

	ingestService := service.NewIngestService(subscriptionRepo, postRepo, validator, fetcher, m, service.IngestOptions{
		Workers:      cfg.Workers,
		Readability:  cfg.Readability,
		FetchTimeout: cfg.FetchTimeout,
		ImageTimeout: cfg.ImageTimeout,
		FeedTimeout:  cfg.FeedTimeout,
	})
	faviconService := service.NewFaviconService(fetcher, cfg.FetchTimeout)

	return &app{
		db:            dbConn,
		metrics:       m,
		ingest:        ingestService,
		repair:        service.NewRepairService(subscriptionRepo, postRepo, feed.NewDiscoverer(fetcher, cfg.FetchTimeout)),
		subscriptions: service.NewSubscriptionService(subscriptionRepo, validator, faviconService),
		posts:         service.NewPostService(subscriptionRepo, postRepo),
		readLogs:      service.NewReadLogService(readLogRepo),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logger.Warn("close database", "module", "app", "action", "close", "resource", "db", "result", "failed", "error", err)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.ingest, a.repair, cfg.FetchInterval, a.metrics)

	router := transport.NewRouter(
		handler.NewSubscriptionHandler(a.subscriptions),
		handler.NewPostHandler(a.posts, a.readLogs),
		handler.NewIngestHandler(sched),
		a.metrics.Handler(),
		cfg.StaticDir,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "module", "app", "action", "start", "resource", "http", "result", "ok", "addr", cfg.Addr)
		errCh <- router.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "module", "app", "action", "stop", "resource", "http", "result", "ok")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}
