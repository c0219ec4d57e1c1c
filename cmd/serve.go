package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	mcpserver "github.com/ziadkadry99/autodiagram/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing framework
detection, structure summaries, class diagram generation and exported
diagrams to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol.
		logger := newLogger(cfg, os.Stderr)

		var gen *diagrams.Generator
		provider, err := createLLMProviderFromConfig(context.Background(), cfg)
		if err != nil {
			warnf("no LLM provider available, generate_class_diagram is disabled: %v", err)
		} else {
			gen = newGenerator(cfg, provider, logger)
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "autodiagram MCP server started on stdio (diagrams=%s)\n", cfg.OutputDir)

		srv := mcpserver.NewServer(gen, diagrams.NewExporter(cfg.OutputDir), logger)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
