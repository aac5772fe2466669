package model

import "time"

// RunRecord is one pipeline run as kept in the history store.
type RunRecord struct {
	ID              int64     `json:"id"`
	RunID           string    `json:"run_id"`
	ModelPath       string    `json:"model_path"`
	InputPath       string    `json:"input_path"`
	TranscriberPath string    `json:"transcriber_path"`
	Stage           Stage     `json:"stage"`
	FailedStage     Stage     `json:"failed_stage,omitempty"`
	Status          string    `json:"status"`
	Transcript      string    `json:"transcript"`
	OutputPath      string    `json:"output_path,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// NewRunRecord flattens a request and its outcome into a history row.
func NewRunRecord(runID string, req PipelineRequest, outcome Outcome) RunRecord {
	return RunRecord{
		RunID:           runID,
		ModelPath:       req.ModelPath,
		InputPath:       req.InputPath,
		TranscriberPath: req.TranscriberPath,
		Stage:           outcome.Stage,
		FailedStage:     outcome.FailedStage,
		Status:          outcome.Status,
		Transcript:      outcome.Transcript,
		OutputPath:      outcome.OutputPath,
		StartedAt:       outcome.StartedAt,
		FinishedAt:      outcome.FinishedAt,
	}
}
