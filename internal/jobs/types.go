// Package jobs runs repository diagram generation asynchronously and reports
// each outcome to a caller-supplied callback URL.
package jobs

import (
	"strings"
	"time"
)

// Status is the lifecycle state of one job run.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CallbackStatus tracks delivery of the outcome to the callback URL.
type CallbackStatus string

const (
	CallbackPending   CallbackStatus = "pending"
	CallbackDelivered CallbackStatus = "delivered"
	CallbackFailed    CallbackStatus = "failed"
)

// Request is the body of POST /api/start-generation.
type Request struct {
	JobID       string `json:"job_id"`
	RepoURL     string `json:"repo_url"`
	GitHubToken string `json:"github_token"`
	CallbackURL string `json:"callback_url"`
	Technical   bool   `json:"technical,omitempty"`
}

// MissingFields lists the required fields that are empty.
func (r Request) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.JobID) == "" {
		missing = append(missing, "job_id")
	}
	if strings.TrimSpace(r.RepoURL) == "" {
		missing = append(missing, "repo_url")
	}
	if strings.TrimSpace(r.CallbackURL) == "" {
		missing = append(missing, "callback_url")
	}
	return missing
}

// Job is one persisted run of a generation request. ID identifies the run;
// JobID is the caller's identifier and may repeat across runs.
type Job struct {
	ID             string          `json:"run_id"`
	JobID          string          `json:"job_id"`
	RepoURL        string          `json:"repo_url"`
	CallbackURL    string          `json:"callback_url"`
	Technical      bool            `json:"technical"`
	Status         Status          `json:"status"`
	Framework      string          `json:"framework,omitempty"`
	Error          string          `json:"error,omitempty"`
	CallbackStatus CallbackStatus  `json:"callback_status"`
	CallbackError  string          `json:"callback_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	Diagrams       []DiagramRecord `json:"diagrams,omitempty"`

	token string
}

// DiagramRecord is one stored diagram of a run.
type DiagramRecord struct {
	SourcePath    string `json:"source_path"`
	Success       bool   `json:"success"`
	DiagramCode   string `json:"diagram_code,omitempty"`
	Description   string `json:"description,omitempty"`
	Error         string `json:"error,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// CallbackPayload is POSTed to the callback URL when a run ends.
type CallbackPayload struct {
	JobID                  string `json:"job_id"`
	Status                 Status `json:"status"`
	Framework              string `json:"framework,omitempty"`
	Diagram                string `json:"diagram,omitempty"`
	Description            string `json:"description,omitempty"`
	Documentation          string `json:"documentation,omitempty"`
	TechnicalDiagram       string `json:"technical_diagram,omitempty"`
	TechnicalDocumentation string `json:"technical_documentation,omitempty"`
	TechnicalError         string `json:"technical_error,omitempty"`
	Error                  string `json:"error,omitempty"`
}
