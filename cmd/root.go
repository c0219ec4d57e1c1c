package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/config"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "autodiagram",
	Short: "AI-generated Mermaid diagrams for any codebase",
	Long: `autodiagram reads a repository and asks an LLM to draw it: class diagrams
per file, the repository structure, a cross-file view, and high-level and
technical architecture diagrams with accompanying documentation. It runs as
a CLI, as an HTTP job service with completion callbacks, or as an MCP server.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
