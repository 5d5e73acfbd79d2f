package uploader_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"relpub/internal/tracker"
	"relpub/internal/uploader"
)

var trackerConflict = tracker.APIError{StatusCode: http.StatusConflict}

// scriptedUploader fails a configurable number of attempts per file before
// succeeding, or always fails with a fixed error.
type scriptedUploader struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (s *scriptedUploader) UploadFile(_ context.Context, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures != 0 {
		if s.failures > 0 {
			s.failures--
		}
		return s.err
	}
	return nil
}

type recordingProgress struct {
	mu    sync.Mutex
	files []string
}

func (r *recordingProgress) FileUploaded(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, name)
}

func TestWorkerSucceedsOnThirdAttempt(t *testing.T) {
	client := &scriptedUploader{failures: 2, err: errors.New("flaky")}
	log := &uploader.Log{}
	progress := &recordingProgress{}
	worker := uploader.NewWorker(client, "v1", uploader.Policy{}, log, progress, nil)

	task := &uploader.Task{SourcePath: "/out/bundle.js", RemoteName: "~/bundle.js"}
	worker.Process(context.Background(), task)

	if client.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", client.calls)
	}
	if task.Attempts != 3 {
		t.Fatalf("task records %d attempts, want 3", task.Attempts)
	}
	succeeded, failed, suppressed := log.Counts()
	if succeeded != 1 || failed != 0 || suppressed != 0 {
		t.Fatalf("unexpected counts: %d/%d/%d", succeeded, failed, suppressed)
	}
	if len(progress.files) != 1 || progress.files[0] != "~/bundle.js" {
		t.Fatalf("expected one progress observation for ~/bundle.js, got %v", progress.files)
	}
}

func TestWorkerGivesUpAfterThreeFailures(t *testing.T) {
	client := &scriptedUploader{failures: -1, err: errors.New("unreachable")}
	log := &uploader.Log{}
	worker := uploader.NewWorker(client, "v1", uploader.Policy{}, log, nil, nil)

	task := &uploader.Task{SourcePath: "/out/bundle.js", RemoteName: "~/bundle.js"}
	worker.Process(context.Background(), task)

	if client.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", client.calls)
	}
	outcomes := log.Outcomes()
	if len(outcomes) != 1 {
		t.Fatalf("expected a single terminal outcome, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil || outcomes[0].Suppressed {
		t.Fatalf("expected unsuppressed failure, got %+v", outcomes[0])
	}
}

func TestWorkerSuppressesConflictAfterOneAttempt(t *testing.T) {
	client := &scriptedUploader{
		failures: -1,
		err:      &trackerConflict,
	}
	log := &uploader.Log{}
	worker := uploader.NewWorker(client, "v1", uploader.Policy{SuppressConflicts: true}, log, nil, nil)

	worker.Process(context.Background(), &uploader.Task{RemoteName: "~/bundle.js"})

	if client.calls != 1 {
		t.Fatalf("conflict suppression should stop after 1 attempt, got %d", client.calls)
	}
	succeeded, failed, suppressed := log.Counts()
	if succeeded != 0 || failed != 0 || suppressed != 1 {
		t.Fatalf("unexpected counts: %d/%d/%d", succeeded, failed, suppressed)
	}
}

func TestWorkerRetriesConflictWithoutSuppression(t *testing.T) {
	client := &scriptedUploader{failures: -1, err: &trackerConflict}
	log := &uploader.Log{}
	worker := uploader.NewWorker(client, "v1", uploader.Policy{}, log, nil, nil)

	worker.Process(context.Background(), &uploader.Task{RemoteName: "~/bundle.js"})

	if client.calls != 3 {
		t.Fatalf("expected full retry budget, got %d attempts", client.calls)
	}
}

func TestWorkerSuppressAllStopsAfterFirstFailure(t *testing.T) {
	client := &scriptedUploader{failures: -1, err: errors.New("anything")}
	log := &uploader.Log{}
	worker := uploader.NewWorker(client, "v1", uploader.Policy{SuppressAll: true}, log, nil, nil)

	worker.Process(context.Background(), &uploader.Task{RemoteName: "~/bundle.js"})

	if client.calls != 1 {
		t.Fatalf("suppress-all should stop after 1 attempt, got %d", client.calls)
	}
	if failed := log.Failed(); len(failed) != 0 {
		t.Fatalf("suppressed failure must not count against the batch: %v", failed)
	}
}
