package uploader

import "sync"

// Task is one file queued for upload to a release.
type Task struct {
	// SourcePath is the on-disk location of the file.
	SourcePath string
	// RemoteName is the name stored on the remote service, after the
	// configured prefix transform has been applied.
	RemoteName string
	// Attempts counts upload attempts made so far.
	Attempts int
}

// Queue holds pending tasks shared across concurrent workers. Removal is
// atomic: a task is handed to exactly one worker, and the queue only
// shrinks. No ordering is guaranteed among pending tasks.
type Queue struct {
	mu    sync.Mutex
	tasks []*Task
}

// NewQueue builds a queue over the given tasks.
func NewQueue(tasks []*Task) *Queue {
	pending := make([]*Task, len(tasks))
	copy(pending, tasks)
	return &Queue{tasks: pending}
}

// Pop removes and returns one pending task. The second return is false once
// the queue is empty.
func (q *Queue) Pop() (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	task := q.tasks[len(q.tasks)-1]
	q.tasks = q.tasks[:len(q.tasks)-1]
	return task, true
}

// Len reports the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
