package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/site"
)

var (
	viewPort int
	viewOpen bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Serve the generated diagrams locally",
	Long:  `Serves the output directory over HTTP so the exported Markdown and HTML documentation can be browsed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return site.Serve(ctx, cfg.OutputDir, viewPort, viewOpen, logger)
	},
}

func init() {
	viewCmd.Flags().IntVar(&viewPort, "port", 8080, "Port to listen on")
	viewCmd.Flags().BoolVar(&viewOpen, "open", false, "open the site in the default browser")
	rootCmd.AddCommand(viewCmd)
}
