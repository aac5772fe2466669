package model

import "time"

// Stage tracks where a pipeline run currently is.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageNormalizing   Stage = "normalizing"
	StageTranscribing  Stage = "transcribing"
	StageReadingResult Stage = "reading_result"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
	StageCancelled     Stage = "cancelled"
)

// Running reports whether the stage has an external step in flight.
func (s Stage) Running() bool {
	switch s {
	case StageNormalizing, StageTranscribing, StageReadingResult:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed || s == StageCancelled
}

// PipelineRequest carries the three paths supplied by the presentation layer.
type PipelineRequest struct {
	ModelPath       string `json:"model_path" validate:"required,notblank"`
	InputPath       string `json:"input_path" validate:"required,notblank"`
	TranscriberPath string `json:"transcriber_path" validate:"required,notblank"`

	// OnStage is called synchronously on the run goroutine whenever the stage changes.
	OnStage func(stage Stage) `json:"-"`
}

// Outcome is the only value a pipeline run hands back to its caller.
type Outcome struct {
	RunID       string                  `json:"run_id,omitempty"`
	Stage       Stage                   `json:"stage"`
	FailedStage Stage                   `json:"failed_stage,omitempty"`
	Status      string                  `json:"status"`
	Transcript  string                  `json:"transcript"`
	OutputPath  string                  `json:"output_path,omitempty"`
	WorkFile    string                  `json:"work_file,omitempty"`
	Timings     map[Stage]time.Duration `json:"timings,omitempty"`
	StartedAt   time.Time               `json:"started_at"`
	FinishedAt  time.Time               `json:"finished_at"`

	// Err is set on failure and cancellation. Warning is set when the run
	// succeeded but the transcript file could not be read.
	Err     error `json:"-"`
	Warning error `json:"-"`
}

// OK reports whether the run reached the done state.
func (o Outcome) OK() bool {
	return o.Stage == StageDone
}

// Duration is the wall time of the run.
func (o Outcome) Duration() time.Duration {
	if o.StartedAt.IsZero() || o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}
