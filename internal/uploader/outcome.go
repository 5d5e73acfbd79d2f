package uploader

import "sync"

// Outcome records the terminal state of one task.
type Outcome struct {
	Task *Task
	// Err is nil on success. When Suppressed is true the error was
	// downgraded by policy and does not count against the batch.
	Err        error
	Suppressed bool
}

// Log accumulates outcomes written by concurrent workers. Entries are
// independent, so a single mutex around the append is all the coordination
// needed.
type Log struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// Record appends one terminal outcome.
func (l *Log) Record(o Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, o)
}

// Outcomes returns a copy of all recorded outcomes.
func (l *Log) Outcomes() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Failed returns the outcomes that ended in an unsuppressed error.
func (l *Log) Failed() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	var failed []Outcome
	for _, o := range l.outcomes {
		if o.Err != nil && !o.Suppressed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Counts reports how many outcomes succeeded, failed, or were suppressed.
func (l *Log) Counts() (succeeded, failed, suppressed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.outcomes {
		switch {
		case o.Err == nil:
			succeeded++
		case o.Suppressed:
			suppressed++
		default:
			failed++
		}
	}
	return succeeded, failed, suppressed
}
