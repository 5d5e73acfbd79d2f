package publish

import (
	"time"

	"relpub/internal/uploader"
)

// Report summarizes one publish run. Warnings carry degraded-but-continued
// conditions; a non-nil error from Run marks the batch as failed.
type Report struct {
	RunID   string
	Version string
	// Selected lists the chosen asset names in lexical order.
	Selected   []string
	Succeeded  int
	Failed     int
	Suppressed int
	Warnings   []string
	Outcomes   []uploader.Outcome
	Duration   time.Duration
	DryRun     bool
}
