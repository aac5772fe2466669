package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/locator"
	"whisper-offline/internal/app/logging"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/process"
	"whisper-offline/internal/app/util/files"
)

// DefaultTempPrefix names the per-run waveform files.
const DefaultTempPrefix = "whisper_input"

// Config controls where the normalizer is looked up and where work files go.
type Config struct {
	NormalizerCandidates []string
	NormalizerFallback   string

	// ScratchDir defaults to os.TempDir().
	ScratchDir string
	TempPrefix string

	// Cleanup removes the waveform after every run and the transcript
	// file after failed or cancelled runs.
	Cleanup bool
}

// DefaultConfig mirrors the stock install locations.
func DefaultConfig() Config {
	return Config{
		NormalizerCandidates: locator.DefaultNormalizerCandidates,
		NormalizerFallback:   locator.DefaultNormalizerFallback,
		ScratchDir:           os.TempDir(),
		TempPrefix:           DefaultTempPrefix,
	}
}

// Orchestrator runs normalize -> transcribe -> read result for one request.
type Orchestrator struct {
	runner   process.Runner
	cfg      Config
	logger   *zap.Logger
	validate *validator.Validate

	locate   func(candidates []string, fallback string) string
	newID    func() string
	readFile func(path string) (string, error)
	remove   func(path string) error
	now      func() time.Time
}

// New constructs an orchestrator with OS dependencies.
func New(runner process.Runner, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	if cfg.TempPrefix == "" {
		cfg.TempPrefix = DefaultTempPrefix
	}
	if cfg.NormalizerFallback == "" {
		cfg.NormalizerFallback = locator.DefaultNormalizerFallback
	}

	return &Orchestrator{
		runner:   runner,
		cfg:      cfg,
		logger:   logging.OrNop(logger),
		validate: newValidator(),
		locate:   locator.Locate,
		newID:    uuid.NewString,
		readFile: files.ReadOutputFile,
		remove:   files.RemoveIfExists,
		now:      time.Now,
	}
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// WorkFilePath allocates a fresh, never reused waveform path in the scratch dir.
func (o *Orchestrator) WorkFilePath() string {
	name := fmt.Sprintf("%s_%s.wav", o.cfg.TempPrefix, o.newID())
	return filepath.Join(o.cfg.ScratchDir, name)
}

// Execute performs one pipeline run. It never returns an error: every
// failure is encoded in the outcome with an empty transcript.
func (o *Orchestrator) Execute(ctx context.Context, req model.PipelineRequest) model.Outcome {
	started := o.now()
	timings := make(map[model.Stage]time.Duration, 3)
	finish := func(out model.Outcome) model.Outcome {
		out.StartedAt = started
		out.FinishedAt = o.now()
		out.Timings = timings
		return out
	}

	if err := validateWith(o.validate, req); err != nil {
		o.logger.Warn("rejecting pipeline request", zap.Error(err))
		return finish(model.Outcome{
			Stage:       model.StageFailed,
			FailedStage: model.StageIdle,
			Status:      err.Error(),
			Err:         err,
		})
	}

	tracker := newStageTracker(req.OnStage)
	advance := func(to model.Stage) {
		if err := tracker.advance(to); err != nil {
			o.logger.Error("stage tracker rejected transition", zap.Error(err))
		}
	}

	normalizer := o.locate(o.cfg.NormalizerCandidates, o.cfg.NormalizerFallback)
	wavPath := o.WorkFilePath()
	outputBase := files.OutputBase(wavPath)
	txtPath := files.TranscriptPath(wavPath)
	logger := o.logger.With(zap.String("work_file", wavPath))

	fail := func(out model.Outcome) model.Outcome {
		advance(out.Stage)
		out.WorkFile = wavPath
		o.cleanup(logger, wavPath, txtPath)
		logger.Info("pipeline run ended",
			zap.String("stage", string(out.Stage)),
			zap.String("failed_stage", string(out.FailedStage)),
			zap.Error(out.Err))
		return finish(out)
	}

	advance(model.StageNormalizing)
	if err := files.EnsureDir(o.cfg.ScratchDir); err != nil {
		return fail(failure(model.StageNormalizing, err.Error(), apperrors.Wrap(err, "prepare scratch directory")))
	}
	normInv := process.Invocation{
		Executable: normalizer,
		Args:       NormalizerArgs(req.InputPath, wavPath),
	}
	if out, failed := o.runStage(ctx, logger, model.StageNormalizing, normInv, timings); failed {
		return fail(out)
	}

	advance(model.StageTranscribing)
	transInv := process.Invocation{
		Executable: req.TranscriberPath,
		Args:       TranscriberArgs(req.ModelPath, wavPath, outputBase),
	}
	if out, failed := o.runStage(ctx, logger, model.StageTranscribing, transInv, timings); failed {
		return fail(out)
	}

	advance(model.StageReadingResult)
	readStart := o.now()
	transcript, readErr := o.readFile(txtPath)
	timings[model.StageReadingResult] = o.now().Sub(readStart)

	out := model.Outcome{
		Stage:      model.StageDone,
		Status:     "done, output at " + txtPath,
		Transcript: transcript,
		OutputPath: txtPath,
		WorkFile:   wavPath,
	}
	if readErr != nil {
		out.Transcript = ""
		out.Warning = apperrors.Wrap(readErr, apperrors.ErrResultUnreadable.Error())
		logger.Warn("transcript file unreadable, reporting empty transcript",
			zap.String("path", txtPath), zap.Error(readErr))
	}
	advance(model.StageDone)

	if o.cfg.Cleanup {
		if err := o.remove(wavPath); err != nil {
			logger.Warn("failed to remove work file", zap.Error(err))
		}
	}

	logger.Info("pipeline run finished",
		zap.String("output", txtPath),
		zap.Int("transcript_bytes", len(out.Transcript)))
	return finish(out)
}

// runStage launches one external step and classifies its result. The
// returned bool is true when the run must stop.
func (o *Orchestrator) runStage(
	ctx context.Context,
	logger *zap.Logger,
	stage model.Stage,
	inv process.Invocation,
	timings map[model.Stage]time.Duration,
) (model.Outcome, bool) {
	logger.Info("running stage", zap.String("stage", string(stage)), zap.String("command", inv.String()))

	start := o.now()
	res, err := o.runner.Run(ctx, inv)
	timings[stage] = o.now().Sub(start)

	label := stageLabel(stage)
	switch {
	case err != nil && apperrors.Is(err, apperrors.ErrCancelled):
		return model.Outcome{
			Stage:       model.StageCancelled,
			FailedStage: stage,
			Status:      "cancelled during " + label,
			Err:         err,
		}, true
	case err != nil:
		return failure(stage, err.Error(), err), true
	case res.ExitCode != 0:
		exitErr := &apperrors.ExitError{Executable: inv.Executable, ExitCode: res.ExitCode, Stderr: res.Stderr}
		logger.Warn("stage exited with failure",
			zap.String("stage", string(stage)),
			zap.Int("exit_code", res.ExitCode),
			zap.Bool("stderr_degraded", res.Degraded))
		return failure(stage, res.Stderr, exitErr), true
	}
	return model.Outcome{}, false
}

func failure(stage model.Stage, detail string, err error) model.Outcome {
	return model.Outcome{
		Stage:       model.StageFailed,
		FailedStage: stage,
		Status:      stageLabel(stage) + " failed: " + detail,
		Err:         err,
	}
}

// cleanup is best effort; errors are logged and never change the outcome.
func (o *Orchestrator) cleanup(logger *zap.Logger, paths ...string) {
	if !o.cfg.Cleanup {
		return
	}
	for _, p := range paths {
		if err := o.remove(p); err != nil {
			logger.Warn("failed to remove work file", zap.String("path", p), zap.Error(err))
		}
	}
}
