package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"relpub/internal/assets"
	"relpub/internal/config"
	"relpub/internal/history"
	"relpub/internal/logging"
	"relpub/internal/tracker"
	"relpub/internal/uploader"
)

// ErrLocked is returned when another publish holds the run lock.
var ErrLocked = errors.New("another publish is already running")

// ReleaseClient is the subset of the tracker client the publisher needs.
type ReleaseClient interface {
	CreateRelease(ctx context.Context, rel tracker.Release) error
	UploadFile(ctx context.Context, version, sourcePath, remoteName string) error
}

// Options describes publisher construction parameters. Config and Client
// are required; the rest may be nil.
type Options struct {
	Config   *config.Config
	Client   ReleaseClient
	Logger   *slog.Logger
	Progress uploader.ProgressSink
	History  *history.Store
}

// Publisher drives the publish sequence: validate, create release, upload,
// clean up, report.
type Publisher struct {
	cfg      *config.Config
	client   ReleaseClient
	logger   *slog.Logger
	progress uploader.ProgressSink
	store    *history.Store
}

// New constructs a publisher.
func New(opts Options) *Publisher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{
		cfg:      opts.Config,
		client:   opts.Client,
		logger:   logger,
		progress: opts.Progress,
		store:    opts.History,
	}
}

// Request describes one publish run. Projects and OutputDir fall back to
// the configured values when empty.
type Request struct {
	Version   string
	Projects  []string
	OutputDir string
	DryRun    bool
}

// Run executes the publish sequence. Per-file upload failures never abort
// the batch; they surface as report warnings, or as a batch error when the
// fail-on-error policy is enabled. A create-release failure is terminal
// unless suppression policy downgrades it.
func (p *Publisher) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	version := strings.TrimSpace(req.Version)
	projects := req.Projects
	if len(projects) == 0 {
		projects = p.cfg.Tracker.Projects
	}

	// Validation happens before any network traffic.
	switch {
	case p.cfg.Tracker.Organization == "":
		return nil, &ConfigError{Field: "tracker.organization"}
	case len(projects) == 0:
		return nil, &ConfigError{Field: "tracker.projects"}
	case p.cfg.Tracker.APIKey == "":
		return nil, &ConfigError{Field: "tracker.api_key"}
	case version == "":
		return nil, &ConfigError{Field: "version"}
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = p.cfg.Upload.OutputDir
	}

	found, err := assets.Scan(outputDir)
	if err != nil {
		return nil, err
	}
	selected := assets.Select(found, p.cfg.IncludeRegexp(), p.cfg.ExcludeRegexp())
	names := assets.SortedNames(selected)

	report := &Report{
		RunID:    uuid.NewString(),
		Version:  version,
		Selected: names,
		DryRun:   req.DryRun,
	}
	logger := p.logger.With(slog.String("run_id", report.RunID), slog.String("version", version))

	if req.DryRun {
		logger.Info("dry run, no requests issued", slog.Int("files", len(names)))
		report.Duration = time.Since(start)
		return report, nil
	}

	unlock, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	logger.Info("creating release", slog.Any("projects", projects))
	created := true
	if err := p.client.CreateRelease(ctx, tracker.Release{Version: version, Projects: projects}); err != nil {
		switch {
		case p.cfg.Upload.SuppressConflicts && tracker.IsConflict(err):
			// The release already exists; files can still be attached.
			logger.Warn("release already exists, continuing", logging.Error(err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("create release: %v", err))
		case p.cfg.Upload.SuppressErrors:
			logger.Warn("create release failed, suppressed by policy", logging.Error(err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("create release: %v", err))
			created = false
		default:
			return nil, fmt.Errorf("create release %s: %w", version, err)
		}
	}

	if created {
		p.uploadFiles(ctx, logger, report, version, selected, names)
	}

	if p.cfg.Cleanup.Enabled {
		removed, err := assets.Cleanup(outputDir, p.cfg.DeleteRegexp())
		if err != nil {
			logger.Warn("cleanup incomplete", logging.Error(err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("cleanup: %v", err))
		}
		if len(removed) > 0 {
			logger.Info("cleanup removed build output", slog.Int("files", len(removed)))
		}
	}

	report.Duration = time.Since(start)
	p.recordHistory(ctx, logger, report)

	if p.cfg.Upload.FailOnError && report.Failed > 0 {
		return report, fmt.Errorf("%d of %d uploads failed", report.Failed, len(names))
	}
	return report, nil
}

func (p *Publisher) uploadFiles(ctx context.Context, logger *slog.Logger, report *Report, version string, selected map[string]string, names []string) {
	tasks := make([]*uploader.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, &uploader.Task{
			SourcePath: selected[name],
			RemoteName: p.cfg.Upload.NamePrefix + name,
		})
	}

	policy := uploader.Policy{
		SuppressAll:       p.cfg.Upload.SuppressErrors,
		SuppressConflicts: p.cfg.Upload.SuppressConflicts,
	}
	outcomes := &uploader.Log{}
	worker := uploader.NewWorker(p.client, version, policy, outcomes, p.progress, logger)
	pool := uploader.NewPool(p.cfg.Upload.Concurrency)

	logger.Info("uploading files",
		slog.Int("files", len(tasks)),
		slog.Int("concurrency", p.cfg.Upload.Concurrency))
	pool.Run(ctx, uploader.NewQueue(tasks), worker.Process)

	report.Succeeded, report.Failed, report.Suppressed = outcomes.Counts()
	report.Outcomes = outcomes.Outcomes()
	for _, outcome := range outcomes.Failed() {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("upload %s failed after %d attempts: %v",
				outcome.Task.RemoteName, outcome.Task.Attempts, outcome.Err))
	}
}

func (p *Publisher) acquireLock() (func(), error) {
	if err := p.cfg.EnsureStateDir(); err != nil {
		return nil, err
	}
	lock := flock.New(p.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire publish lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Publisher) recordHistory(ctx context.Context, logger *slog.Logger, report *Report) {
	if p.store == nil {
		return
	}

	outcome := history.OutcomeSuccess
	if p.cfg.Upload.FailOnError && report.Failed > 0 {
		outcome = history.OutcomeFailed
	}
	run := history.Run{
		ID:           report.RunID,
		Version:      report.Version,
		Organization: p.cfg.Tracker.Organization,
		Succeeded:    report.Succeeded,
		Failed:       report.Failed,
		Suppressed:   report.Suppressed,
		Duration:     report.Duration,
		Outcome:      outcome,
	}

	files := make([]history.FileOutcome, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		status := history.FileUploaded
		detail := ""
		switch {
		case o.Err != nil && o.Suppressed:
			status = history.FileSuppressed
			detail = o.Err.Error()
		case o.Err != nil:
			status = history.FileFailed
			detail = o.Err.Error()
		}
		files = append(files, history.FileOutcome{
			RunID:    report.RunID,
			Name:     o.Task.RemoteName,
			Status:   status,
			Attempts: o.Task.Attempts,
			Detail:   detail,
		})
	}

	if err := p.store.RecordRun(ctx, run, files); err != nil {
		// History is observability, not correctness; never fail the run.
		logger.Warn("record publish history", logging.Error(err))
	}
}
