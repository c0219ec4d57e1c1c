package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/autodiagram/internal/diagrams"
	"github.com/ziadkadry99/autodiagram/internal/source"
)

// Fetcher materialises a repository for one run.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL, token string) (*source.Snapshot, error)
}

// Worker does the generation work of a single run.
type Worker interface {
	Process(ctx context.Context, job *Job) Outcome
}

// Outcome is what a run produced: the callback payload and the diagrams to store.
type Outcome struct {
	Payload  CallbackPayload
	Diagrams []DiagramRecord
}

func failedOutcome(jobID string, err error) Outcome {
	return Outcome{Payload: CallbackPayload{JobID: jobID, Status: StatusFailed, Error: err.Error()}}
}

// Processor fetches a repository and generates its architecture diagrams
// and documentation.
type Processor struct {
	Fetcher   Fetcher
	Generator *diagrams.Generator
	// Exporter, when set, also writes every diagram to disk.
	Exporter *diagrams.Exporter
	Logger   *slog.Logger
}

// Process runs one job: fetch, high-level architecture, technical
// architecture when requested, documentation.
func (p *Processor) Process(ctx context.Context, job *Job) Outcome {
	logger := p.logger().With("job_id", job.JobID, "run_id", job.ID)

	snap, err := p.Fetcher.Fetch(ctx, job.RepoURL, job.token)
	if err != nil {
		logger.Error("fetching repository failed", "repo", job.RepoURL, "error", err)
		return failedOutcome(job.JobID, fmt.Errorf("fetching repository: %w", err))
	}
	defer func() {
		if err := snap.Close(); err != nil {
			logger.Warn("removing checkout failed", "dir", snap.Dir, "error", err)
		}
	}()

	report, err := diagrams.Run(ctx, p.Generator, snap, diagrams.RunOptions{
		Technical:        job.Technical,
		SkipFileDiagrams: true,
		Export:           p.Exporter,
		Logger:           logger,
	})
	if err != nil {
		if ctx.Err() != nil {
			return failedOutcome(job.JobID, err)
		}
		logger.Warn("exporting diagrams failed", "error", err)
	}

	out := Outcome{Diagrams: records(report)}

	overview, _ := report.Find(diagrams.TagArchitectureOverview)
	if !overview.Success {
		out.Payload = CallbackPayload{JobID: job.JobID, Status: StatusFailed, Framework: report.Framework, Error: overview.Error}
		return out
	}

	out.Payload = CallbackPayload{
		JobID:         job.JobID,
		Status:        StatusCompleted,
		Framework:     report.Framework,
		Diagram:       overview.DiagramCode,
		Description:   overview.Description,
		Documentation: documentationText(report, diagrams.TagArchitectureOverview),
	}
	if job.Technical {
		tech, _ := report.Find(diagrams.TagTechnicalArchitecture)
		if tech.Success {
			out.Payload.TechnicalDiagram = tech.DiagramCode
			out.Payload.TechnicalDocumentation = documentationText(report, diagrams.TagTechnicalArchitecture)
		} else {
			out.Payload.TechnicalError = tech.Error
		}
	}
	return out
}

// documentationText returns the generated documentation for tag, or the
// failure rendered as text.
func documentationText(report *diagrams.RunReport, tag string) string {
	if doc, ok := report.Documentation[tag]; ok {
		return doc
	}
	if err, ok := report.DocumentationErrors[tag]; ok {
		return "Error generating documentation: " + err.Error()
	}
	return ""
}

func records(report *diagrams.RunReport) []DiagramRecord {
	out := make([]DiagramRecord, 0, len(report.Results))
	for _, r := range report.Results {
		out = append(out, DiagramRecord{
			SourcePath:    r.SourcePath,
			Success:       r.Success,
			DiagramCode:   r.DiagramCode,
			Description:   r.Description,
			Error:         r.Error,
			Documentation: report.Documentation[r.SourcePath],
		})
	}
	return out
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
