package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/autodiagram/internal/db"
)

// ErrNotFound is returned when no run matches.
var ErrNotFound = errors.New("job not found")

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists job runs and their diagrams.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

func (s *Store) timestamp() (time.Time, string) {
	t := s.now().UTC()
	return t, t.Format(timeLayout)
}

// Create inserts a queued run for req and returns it. A run ID is generated.
func (s *Store) Create(ctx context.Context, req Request) (*Job, error) {
	created, ts := s.timestamp()
	job := &Job{
		ID:             uuid.New().String(),
		JobID:          req.JobID,
		RepoURL:        req.RepoURL,
		CallbackURL:    req.CallbackURL,
		Technical:      req.Technical,
		Status:         StatusQueued,
		CallbackStatus: CallbackPending,
		CreatedAt:      created,
		token:          req.GitHubToken,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, job_id, repo_url, callback_url, technical, status, callback_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.JobID, job.RepoURL, job.CallbackURL, boolInt(job.Technical),
		string(job.Status), string(job.CallbackStatus), ts,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting job: %w", err)
	}
	return job, nil
}

const jobColumns = `id, job_id, repo_url, callback_url, technical, status, framework, error,
	callback_status, callback_error, created_at, started_at, finished_at`

// Get returns the run with the given run ID, including its diagrams.
func (s *Store) Get(ctx context.Context, runID string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", runID)
	return s.withDiagrams(ctx, row)
}

// Latest returns the most recent run for a caller job ID, including its diagrams.
func (s *Store) Latest(ctx context.Context, jobID string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE job_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", jobID)
	return s.withDiagrams(ctx, row)
}

func (s *Store) withDiagrams(ctx context.Context, row *sql.Row) (*Job, error) {
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.Diagrams, err = s.diagrams(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// List returns recent runs, newest first, without diagrams. A non-positive
// limit returns at most 50 runs.
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	result := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		result = append(result, *job)
	}
	return result, rows.Err()
}

// MarkStarted moves a queued run to processing.
func (s *Store) MarkStarted(ctx context.Context, runID string) error {
	_, ts := s.timestamp()
	return s.update(ctx, "UPDATE jobs SET status = ?, started_at = ? WHERE id = ? AND status = ?",
		string(StatusProcessing), ts, runID, string(StatusQueued))
}

// Finish records a terminal status. Runs already in a terminal state are left unchanged.
func (s *Store) Finish(ctx context.Context, runID string, status Status, framework, errMsg string) error {
	_, ts := s.timestamp()
	return s.update(ctx, `UPDATE jobs SET status = ?, framework = ?, error = ?, finished_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		string(status), framework, errMsg, ts, runID, string(StatusQueued), string(StatusProcessing))
}

// Abandon fails a run that is still queued. ErrNotFound means a worker has
// already claimed it or it has finished.
func (s *Store) Abandon(ctx context.Context, runID, errMsg string) error {
	_, ts := s.timestamp()
	return s.update(ctx, `UPDATE jobs SET status = ?, error = ?, finished_at = ?
		WHERE id = ? AND status = ?`,
		string(StatusFailed), errMsg, ts, runID, string(StatusQueued))
}

// SetCallback records the outcome of delivering the callback.
func (s *Store) SetCallback(ctx context.Context, runID string, status CallbackStatus, errMsg string) error {
	return s.update(ctx, "UPDATE jobs SET callback_status = ?, callback_error = ? WHERE id = ?",
		string(status), errMsg, runID)
}

// SaveDiagrams stores the diagrams of a run, replacing any with the same source path.
func (s *Store) SaveDiagrams(ctx context.Context, runID string, records []DiagramRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO job_diagrams (run_id, source_path, success, diagram_code, description, error, documentation)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, source_path) DO UPDATE SET
				success = excluded.success,
				diagram_code = excluded.diagram_code,
				description = excluded.description,
				error = excluded.error,
				documentation = excluded.documentation`,
			runID, r.SourcePath, boolInt(r.Success), r.DiagramCode, r.Description, r.Error, r.Documentation)
		if err != nil {
			return fmt.Errorf("inserting diagram %s: %w", r.SourcePath, err)
		}
	}
	return tx.Commit()
}

func (s *Store) diagrams(ctx context.Context, runID string) ([]DiagramRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_path, success, diagram_code, description, error, documentation
		FROM job_diagrams WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying diagrams: %w", err)
	}
	defer rows.Close()

	var out []DiagramRecord
	for rows.Next() {
		var (
			r       DiagramRecord
			success int
		)
		if err := rows.Scan(&r.SourcePath, &success, &r.DiagramCode, &r.Description, &r.Error, &r.Documentation); err != nil {
			return nil, fmt.Errorf("scanning diagram: %w", err)
		}
		r.Success = success != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*Job, error) {
	var (
		j                 Job
		technical         int
		status, cbStatus  string
		created           string
		started, finished sql.NullString
	)
	err := sc.Scan(&j.ID, &j.JobID, &j.RepoURL, &j.CallbackURL, &technical, &status,
		&j.Framework, &j.Error, &cbStatus, &j.CallbackError, &created, &started, &finished)
	if err != nil {
		return nil, err
	}

	j.Technical = technical != 0
	j.Status = Status(status)
	j.CallbackStatus = CallbackStatus(cbStatus)
	if t, err := time.Parse(timeLayout, created); err == nil {
		j.CreatedAt = t
	}
	j.StartedAt = parseNullTime(started)
	j.FinishedAt = parseNullTime(finished)
	return &j, nil
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
