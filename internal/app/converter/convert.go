package converter

import (
	"context"

	"go.uber.org/zap"

	"whisper-offline/internal/app/converter/export"
	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/logging"
	"whisper-offline/internal/app/metrics"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/repository"
	"whisper-offline/internal/app/util/files"
)

// LockDir holds the cross-process run lock. Empty disables the lock.
type LockDir string

// Converter is the application service shared by the CLI and the API server.
// It submits runs to the worker and records every outcome in history and metrics.
type Converter struct {
	worker  *jobs.Worker
	db      repository.RunDAO
	metrics *metrics.Collector
	lockDir LockDir
	logger  *zap.Logger
}

func NewConverter(worker *jobs.Worker, runDAO repository.RunDAO, collector *metrics.Collector, lockDir LockDir, logger *zap.Logger) *Converter {
	if runDAO == nil {
		runDAO = repository.NoopDAO{}
	}
	if collector == nil {
		collector = metrics.NewCollector(false)
	}
	return &Converter{
		worker:  worker,
		db:      runDAO,
		metrics: collector,
		lockDir: lockDir,
		logger:  logging.OrNop(logger),
	}
}

func (c *Converter) Close() error {
	c.worker.Wait()
	return c.db.Close()
}

// Metrics returns the collector runs are observed on.
func (c *Converter) Metrics() *metrics.Collector {
	return c.metrics
}

// Start submits req without waiting. rep is called once the outcome has
// been recorded. Runs in other processes sharing the lock directory count
// as busy.
func (c *Converter) Start(ctx context.Context, req model.PipelineRequest, rep jobs.Reporter) (string, error) {
	lock, err := c.acquireRunLock()
	if err != nil {
		return "", err
	}

	c.metrics.RunStarted()
	runID, err := c.worker.Submit(ctx, req, jobs.Multi(
		jobs.ReporterFunc(func(outcome model.Outcome) {
			c.record(req, outcome)
			c.releaseRunLock(lock)
		}),
		rep,
	))
	if err != nil {
		c.metrics.RunAborted()
		c.releaseRunLock(lock)
		return "", err
	}
	return runID, nil
}

// acquireRunLock opens a fresh lock per run, so a second run in this
// process conflicts with the first the same way one in another process does.
func (c *Converter) acquireRunLock() (*files.RunLock, error) {
	if c.lockDir == "" {
		return nil, nil
	}
	dir := string(c.lockDir)
	if err := files.EnsureDir(dir); err != nil {
		return nil, err
	}

	lock := files.NewRunLock(dir)
	acquired, err := lock.TryAcquire()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperrors.Wrapf(apperrors.ErrJobAlreadyRunning, "run lock %s is held", lock.Path())
	}
	return lock, nil
}

func (c *Converter) releaseRunLock(lock *files.RunLock) {
	if lock == nil {
		return
	}
	if err := lock.Release(); err != nil {
		c.logger.Warn("failed to release run lock", zap.String("path", lock.Path()), zap.Error(err))
	}
}

// Transcribe runs req and blocks until its outcome is available. The error
// is only set when the run could not be submitted; pipeline failures are
// reported in the outcome.
func (c *Converter) Transcribe(ctx context.Context, req model.PipelineRequest) (model.Outcome, error) {
	rep := jobs.NewChannelReporter(1)
	if _, err := c.Start(ctx, req, rep); err != nil {
		return model.Outcome{}, err
	}
	return <-rep.Outcomes(), nil
}

// Cancel stops the in-flight run.
func (c *Converter) Cancel() error {
	return c.worker.Cancel()
}

func (c *Converter) Status() jobs.Status {
	return c.worker.Status()
}

// History returns the newest recorded runs.
func (c *Converter) History(ctx context.Context, limit int) ([]model.RunRecord, error) {
	return c.db.ListRuns(ctx, limit)
}

// Run looks up one recorded run.
func (c *Converter) Run(ctx context.Context, runID string) (*model.RunRecord, error) {
	run, err := c.db.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, apperrors.NotFound("run", runID)
	}
	return run, nil
}

// ExportHistory writes up to limit runs to an xlsx workbook and returns how many were written.
func (c *Converter) ExportHistory(ctx context.Context, outputFilePath string, limit int) (int, error) {
	runs, err := c.db.ListRuns(ctx, limit)
	if err != nil {
		return 0, err
	}
	if err := export.ToExcel(runs, outputFilePath); err != nil {
		return 0, err
	}
	c.logger.Info("history exported", zap.String("path", outputFilePath), zap.Int("runs", len(runs)))
	return len(runs), nil
}

func (c *Converter) record(req model.PipelineRequest, outcome model.Outcome) {
	c.metrics.Observe(outcome)

	run := model.NewRunRecord(outcome.RunID, req, outcome)
	if _, err := c.db.RecordRun(context.Background(), run); err != nil {
		c.logger.Warn("failed to record run", zap.String("run_id", outcome.RunID), zap.Error(err))
	}
}
