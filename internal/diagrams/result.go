package diagrams

import "fmt"

// Fixed source tags for repository-wide diagrams.
const (
	TagRepositoryStructure   = "repository_structure"
	TagMultiFile             = "multi_file_architecture"
	TagArchitectureOverview  = "architecture_overview"
	TagTechnicalArchitecture = "technical_architecture"
)

// Result is the outcome of one diagram request. A successful result never
// carries an error message, and a failed one carries neither code nor
// description.
type Result struct {
	DiagramCode string `json:"diagram_code"`
	Description string `json:"description"`
	SourcePath  string `json:"source_path"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func succeeded(sourcePath, code, description string) Result {
	return Result{
		DiagramCode: code,
		Description: description,
		SourcePath:  sourcePath,
		Success:     true,
	}
}

func failed(sourcePath string, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{SourcePath: sourcePath, Error: msg}
}

// GenerationError records which diagram operation a provider failure came from.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
