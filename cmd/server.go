package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/db"
	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	"github.com/ziadkadry99/autodiagram/internal/jobs"
	"github.com/ziadkadry99/autodiagram/internal/server"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

var (
	serverPort   int
	serverExport bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the diagram job service",
	Long: `Starts the HTTP job service. POST /api/start-generation queues a repository;
a worker clones it, generates the architecture diagrams and documentation,
and POSTs the result to the job's callback URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, os.Stderr)
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// One provider for the whole process; the generator is shared by workers.
		provider, err := createLLMProviderFromConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		if dir := filepath.Dir(cfg.Server.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database dir: %w", err)
			}
		}
		database, err := db.Open(cfg.Server.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		processor := &jobs.Processor{
			Fetcher: &source.Fetcher{
				Include: cfg.Include,
				Exclude: cfg.Exclude,
				Logger:  logger,
			},
			Generator: newGenerator(cfg, provider, logger),
			Logger:    logger,
		}
		if serverExport {
			processor.Exporter = diagrams.NewExporter(cfg.OutputDir)
		}

		store := jobs.NewStore(database)
		runner := jobs.NewRunner(store, processor, jobs.NewNotifier(jobs.DefaultCallbackTimeout), logger, jobs.RunnerConfig{
			Workers:    cfg.Server.MaxConcurrency,
			QueueSize:  cfg.Server.QueueSize,
			JobTimeout: cfg.Server.JobTimeout,
		})
		runner.Start()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, runner, store, logger)

		// Shutdown also stops the runner; wait for it before the database closes.
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "autodiagram server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Workers:  %d (queue %d, timeout %s)\n", cfg.Server.MaxConcurrency, cfg.Server.QueueSize, cfg.Server.JobTimeout)

		if err := srv.Start(); err != nil {
			stop()
			<-stopped
			return err
		}
		<-stopped
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8001, "Port to listen on (overrides config)")
	serverCmd.Flags().BoolVar(&serverExport, "export", false, "also write each job's diagrams to the output directory")
	rootCmd.AddCommand(serverCmd)
}
