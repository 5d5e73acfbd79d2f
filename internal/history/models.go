package history

import "time"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Per-file statuses.
const (
	FileUploaded   = "uploaded"
	FileFailed     = "failed"
	FileSuppressed = "suppressed"
)

// Run is one recorded publish run.
type Run struct {
	ID           string
	Version      string
	Organization string
	Succeeded    int
	Failed       int
	Suppressed   int
	Duration     time.Duration
	Outcome      string
	CreatedAt    time.Time
}

// FileOutcome is the terminal state of one file within a run.
type FileOutcome struct {
	RunID    string
	Name     string
	Status   string
	Attempts int
	// Detail carries the final error text for failed or suppressed files.
	Detail string
}
