package uploader

import (
	"context"
	"log/slog"

	"relpub/internal/logging"
	"relpub/internal/tracker"
)

// maxAttempts is the total number of upload attempts per task, including
// the first one.
const maxAttempts = 3

// FileUploader performs a single upload attempt for one file.
type FileUploader interface {
	UploadFile(ctx context.Context, version, sourcePath, remoteName string) error
}

// ProgressSink receives one observation per successfully uploaded file.
type ProgressSink interface {
	FileUploaded(remoteName string)
}

// Policy decides which failures end a task early instead of retrying.
type Policy struct {
	// SuppressAll downgrades every upload failure to a suppressed outcome
	// after the first attempt.
	SuppressAll bool
	// SuppressConflicts downgrades 409 responses to a suppressed outcome
	// after the first attempt. Conflicts usually mean the file already
	// exists on the release.
	SuppressConflicts bool
}

// Worker drives individual tasks to a terminal outcome: logged success,
// suppressed failure, or final failure after the attempt budget is spent.
type Worker struct {
	client   FileUploader
	version  string
	policy   Policy
	log      *Log
	progress ProgressSink
	logger   *slog.Logger
}

// NewWorker builds a worker uploading files to the given release version.
// progress may be nil.
func NewWorker(client FileUploader, version string, policy Policy, log *Log, progress ProgressSink, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		client:   client,
		version:  version,
		policy:   policy,
		log:      log,
		progress: progress,
		logger:   logger,
	}
}

// Process uploads one task, retrying failed attempts up to the attempt
// budget. The task is recorded in the outcome log exactly once and is never
// re-queued.
func (w *Worker) Process(ctx context.Context, task *Task) {
	for {
		task.Attempts++
		err := w.client.UploadFile(ctx, w.version, task.SourcePath, task.RemoteName)
		if err == nil {
			w.log.Record(Outcome{Task: task})
			if w.progress != nil {
				w.progress.FileUploaded(task.RemoteName)
			}
			return
		}

		if w.policy.SuppressAll || (w.policy.SuppressConflicts && tracker.IsConflict(err)) {
			w.logger.Warn("upload failure suppressed",
				slog.String("file", task.RemoteName),
				logging.Error(err))
			w.log.Record(Outcome{Task: task, Err: err, Suppressed: true})
			return
		}

		w.logger.Warn("upload attempt failed",
			slog.String("file", task.RemoteName),
			slog.Int("attempt", task.Attempts),
			slog.Int("max_attempts", maxAttempts),
			logging.Error(err))

		if task.Attempts >= maxAttempts {
			w.log.Record(Outcome{Task: task, Err: err})
			return
		}
	}
}
