package diagrams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/autodiagram/internal/analysis"
	"github.com/ziadkadry99/autodiagram/internal/llm"
	"github.com/ziadkadry99/autodiagram/internal/progress"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

// RunOptions selects what a Run produces.
type RunOptions struct {
	// Technical adds the developer-facing architecture diagram.
	Technical bool
	// Extensions restricts class diagrams to these file extensions. Empty
	// selects every programming-language file.
	Extensions []string
	// SkipFileDiagrams omits the per-file and multi-file class diagrams.
	SkipFileDiagrams bool
	// Export, when set, receives every result and documentation page.
	Export   *Exporter
	Progress progress.Reporter
	Logger   *slog.Logger
}

// RunReport collects everything a Run produced.
type RunReport struct {
	Framework string
	Results   []Result
	// Documentation maps an architecture tag to its generated Markdown.
	Documentation map[string]string
	// DocumentationErrors maps an architecture tag to its generation failure.
	DocumentationErrors map[string]error
	// Files lists the paths written by the exporter.
	Files []string
	Usage llm.Usage
}

// Find returns the result with the given source path.
func (r *RunReport) Find(sourcePath string) (Result, bool) {
	for _, res := range r.Results {
		if res.SourcePath == sourcePath {
			return res, true
		}
	}
	return Result{}, false
}

// Failed returns the results that did not succeed.
func (r *RunReport) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Run diagrams a repository snapshot: one class diagram per source file,
// the repository structure, a cross-file diagram, the high-level
// architecture, optionally the technical architecture, and documentation
// for the architecture diagrams that succeeded. Provider failures are
// recorded in the report and never stop the run. The returned error is
// non-nil only when ctx ends early or exporting fails.
func Run(ctx context.Context, gen *Generator, snap *source.Snapshot, opts RunOptions) (*RunReport, error) {
	g := gen.Fork(WithLanguages(snap.Languages))
	reporter := opts.Progress
	if reporter == nil {
		reporter = progress.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := snap.Paths()
	var code []SourceFile
	if !opts.SkipFileDiagrams {
		code = snap.SourceFiles(opts.Extensions)
	}
	framework := analysis.DetectFramework(paths, snap.Languages)

	report := &RunReport{
		Framework:           framework,
		Documentation:       make(map[string]string),
		DocumentationErrors: make(map[string]error),
	}
	logger.Info("starting diagram run", "files", len(paths), "code_files", len(code), "framework", framework)

	total := len(code) + 3
	if len(code) > 1 {
		total++
	}
	if opts.Technical {
		total += 2
	}
	reporter.Start(total)
	defer reporter.Finish()

	step := 0
	var exportErrs []error
	record := func(label string, res Result) {
		step++
		reporter.Update(step, label)
		report.Results = append(report.Results, res)
		if !res.Success {
			logger.Warn("diagram failed", "source", res.SourcePath, "error", res.Error)
		}
		if opts.Export != nil {
			path, err := opts.Export.Save(res)
			if err != nil {
				exportErrs = append(exportErrs, err)
				return
			}
			report.Files = append(report.Files, path)
		}
	}
	finish := func() (*RunReport, error) {
		report.Usage = g.Usage()
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("diagram run interrupted: %w", err)
		}
		if len(exportErrs) > 0 {
			return report, errors.Join(exportErrs...)
		}
		return report, nil
	}

	for _, f := range code {
		if ctx.Err() != nil {
			return finish()
		}
		record("class diagram "+f.Path, g.GenerateClassDiagram(ctx, f.Path, f.Content))
	}

	if ctx.Err() != nil {
		return finish()
	}
	record("repository structure", g.GenerateRepositoryStructure(ctx, paths))

	if len(code) > 1 {
		if ctx.Err() != nil {
			return finish()
		}
		record("multi-file architecture", g.GenerateMultiFileDiagram(ctx, code))
	}

	if ctx.Err() != nil {
		return finish()
	}
	overview := g.GenerateHighLevelArchitecture(ctx, framework, analysis.SummarizeStructure(paths))
	record("architecture overview", overview)
	architecture := []Result{overview}

	if opts.Technical {
		if ctx.Err() != nil {
			return finish()
		}
		technical := g.GenerateTechnicalArchitecture(ctx, framework, paths, snap.KeyFileContents(framework))
		record("technical architecture", technical)
		architecture = append(architecture, technical)
	}

	for _, res := range architecture {
		if ctx.Err() != nil {
			return finish()
		}
		step++
		reporter.Update(step, "documentation "+res.SourcePath)
		if !res.Success {
			continue
		}
		doc, err := g.GenerateDocumentation(ctx, res)
		if err != nil {
			report.DocumentationErrors[res.SourcePath] = err
			continue
		}
		report.Documentation[res.SourcePath] = doc
		if opts.Export != nil {
			path, err := opts.Export.SaveDocumentation(res.SourcePath, doc)
			if err != nil {
				exportErrs = append(exportErrs, err)
				continue
			}
			report.Files = append(report.Files, path)
		}
	}

	return finish()
}
