package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/logging"
	"whisper-offline/internal/app/model"
)

// Executor runs one pipeline request to completion.
type Executor interface {
	Execute(ctx context.Context, req model.PipelineRequest) model.Outcome
}

// Status is a snapshot of the worker.
type Status struct {
	RunID   string      `json:"run_id,omitempty"`
	Stage   model.Stage `json:"stage"`
	Running bool        `json:"running"`
}

// Worker runs at most one pipeline at a time on a background goroutine.
type Worker struct {
	exec   Executor
	logger *zap.Logger

	mu     sync.Mutex
	runID  string
	stage  model.Stage
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// NewWorker creates an idle worker.
func NewWorker(exec Executor, logger *zap.Logger) *Worker {
	return &Worker{
		exec:   exec,
		logger: logging.OrNop(logger),
		stage:  model.StageIdle,
	}
}

// Submit starts req in the background and returns its run ID without
// waiting. rep receives exactly one outcome, delivered on its own goroutine
// after the worker is idle again.
func (w *Worker) Submit(ctx context.Context, req model.PipelineRequest, rep Reporter) (string, error) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return "", apperrors.ErrJobAlreadyRunning
	}
	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	w.runID = runID
	w.stage = model.StageIdle
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	onStage := req.OnStage
	req.OnStage = func(stage model.Stage) {
		w.setStage(stage)
		if onStage != nil {
			onStage(stage)
		}
	}

	logger := w.logger.With(zap.String("run_id", runID))
	logger.Info("run submitted", zap.String("input", req.InputPath))

	go func() {
		defer w.wg.Done()

		outcome := w.exec.Execute(runCtx, req)
		outcome.RunID = runID
		cancel()

		w.mu.Lock()
		w.cancel = nil
		w.stage = outcome.Stage
		w.mu.Unlock()

		logger.Info("run completed", zap.String("stage", string(outcome.Stage)), zap.Duration("elapsed", outcome.Duration()))
		if rep == nil {
			return
		}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			rep.Report(outcome)
		}()
	}()

	return runID, nil
}

// Cancel stops the in-flight run. The run still reports a cancelled outcome.
func (w *Worker) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return apperrors.ErrNoRunningJob
	}
	w.logger.Info("cancelling run", zap.String("run_id", w.runID))
	w.cancel()
	return nil
}

// Status returns a snapshot of the current or last run.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{RunID: w.runID, Stage: w.stage, Running: w.cancel != nil}
}

// Wait blocks until every submitted run and its report have finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) setStage(stage model.Stage) {
	w.mu.Lock()
	w.stage = stage
	w.mu.Unlock()
}
