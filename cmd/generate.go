package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/auth"
	"github.com/ziadkadry99/autodiagram/internal/config"
	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	"github.com/ziadkadry99/autodiagram/internal/progress"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Mermaid diagrams and architecture docs for a repository",
	Long: `Reads a local directory or clones a GitHub repository, generates class,
structure and architecture diagrams through the configured LLM, and writes
them as Markdown to the output directory.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("repo", "", "GitHub repository URL to clone (overrides --dir)")
	generateCmd.Flags().String("dir", ".", "local directory to diagram")
	generateCmd.Flags().String("token", "", "GitHub access token for private repositories (default $GITHUB_TOKEN or the stored github token)")
	generateCmd.Flags().Bool("technical", false, "also generate the technical architecture diagram")
	generateCmd.Flags().String("output", "", "output directory (overrides config)")
	generateCmd.Flags().StringSlice("ext", nil, "file extensions for class diagrams, e.g. .py,.go (overrides config)")
	generateCmd.Flags().Bool("skip-files", false, "skip per-file and multi-file class diagrams")
	generateCmd.Flags().Bool("dry-run", false, "estimate prompt size and cost without calling the provider")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	repoURL, _ := cmd.Flags().GetString("repo")
	dir, _ := cmd.Flags().GetString("dir")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = auth.Lookup(auth.GitHub, "GITHUB_TOKEN")
	}
	technical, _ := cmd.Flags().GetBool("technical")
	skipFiles, _ := cmd.Flags().GetBool("skip-files")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions, _ = cmd.Flags().GetStringSlice("ext")
	}

	fetcher := &source.Fetcher{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Logger:  logger,
	}

	var snap *source.Snapshot
	if repoURL != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Cloning %s...\n", repoURL)
		}
		snap, err = fetcher.Fetch(ctx, repoURL, token)
	} else {
		snap, err = fetcher.Open(dir)
	}
	if err != nil {
		return fmt.Errorf("loading repository: %w", err)
	}
	defer snap.Close()

	if len(snap.Files) == 0 {
		fmt.Println("No files found to diagram.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d files (%s)\n", len(snap.Files), strings.Join(snap.Languages, ", "))
	}

	opts := diagrams.RunOptions{
		Technical:        technical,
		Extensions:       cfg.Extensions,
		SkipFileDiagrams: skipFiles,
		Logger:           logger,
	}

	if dryRun {
		printEstimate(diagrams.EstimateRun(snap, opts), cfg)
		return nil
	}

	provider, err := createLLMProviderFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	opts.Export = diagrams.NewExporter(cfg.OutputDir)
	opts.Progress = progress.NewReporter()

	report, err := diagrams.Run(ctx, newGenerator(cfg, provider, logger), snap, opts)
	if report == nil {
		return fmt.Errorf("diagram run failed: %w", err)
	}

	if _, idxErr := opts.Export.WriteIndex(report); idxErr != nil {
		warnf("writing index: %v", idxErr)
	}

	failed := report.Failed()
	duration := time.Since(start)
	fmt.Println()
	fmt.Println("Diagram generation complete!")
	fmt.Printf("  Framework:       %s\n", report.Framework)
	fmt.Printf("  Diagrams:        %d succeeded, %d failed\n", len(report.Results)-len(failed), len(failed))
	fmt.Printf("  Documentation:   %d page(s)\n", len(report.Documentation))
	fmt.Printf("  Requests:        %d\n", report.Usage.Requests)
	fmt.Printf("  Tokens used:     %d input, %d output\n", report.Usage.InputTokens, report.Usage.OutputTokens)
	if cost := report.Usage.Cost(cfg.Model); cost > 0 {
		fmt.Printf("  Estimated cost:  $%.4f\n", cost)
	}
	fmt.Printf("  Duration:        %s\n", duration.Round(time.Millisecond))
	fmt.Printf("  Output:          %s\n", opts.Export.Dir())

	if len(failed) > 0 || len(report.DocumentationErrors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarnings (%d):\n", len(failed)+len(report.DocumentationErrors))
		for _, r := range failed {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", r.SourcePath, r.Error)
		}
		for tag, docErr := range report.DocumentationErrors {
			fmt.Fprintf(os.Stderr, "  - %s documentation: %v\n", tag, docErr)
		}
	}

	return err
}

// printEstimate displays a dry-run estimate.
func printEstimate(est diagrams.Estimate, cfg *config.Config) {
	fmt.Println("Cost Estimate (dry run)")
	fmt.Println("=======================")
	fmt.Printf("  Requests:            %d\n", est.Requests)
	fmt.Printf("  Prompt tokens:       %d\n", est.InputTokens)
	fmt.Printf("  Reply tokens (est.): %d\n", est.OutputTokens)
	fmt.Printf("  Estimated total:     $%.4f\n", est.Cost(cfg.Model))
	fmt.Println()
	fmt.Println("  Breakdown (prompt tokens):")
	ops := make([]string, 0, len(est.Breakdown))
	for op := range est.Breakdown {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Printf("    %-24s %d\n", op, est.Breakdown[op])
	}
	fmt.Println()
	fmt.Printf("  Provider:            %s\n", cfg.Provider)
	fmt.Printf("  Model:               %s\n", cfg.Model)
}
