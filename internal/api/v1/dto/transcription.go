package dto

import (
	"strings"
	"time"

	"whisper-offline/internal/api/errors"
	"whisper-offline/internal/app/model"
)

// Defaults fill request fields the client left out.
type Defaults struct {
	ModelPath       string
	TranscriberPath string
}

// CreateTranscriptionRequest represents the request to start a pipeline run
type CreateTranscriptionRequest struct {
	InputPath       string `json:"input_path" binding:"required"`
	ModelPath       string `json:"model_path,omitempty"`
	TranscriberPath string `json:"transcriber_path,omitempty"`

	// Wait keeps the request open until the run finishes.
	Wait bool `json:"wait,omitempty"`
}

// Validate performs domain-specific validation
func (r *CreateTranscriptionRequest) Validate() error {
	if strings.TrimSpace(r.InputPath) == "" {
		return errors.NewValidationError("Invalid transcription request", map[string]string{
			"input_path": "is required",
		})
	}
	return nil
}

// ToPipelineRequest merges the request with server defaults.
func (r *CreateTranscriptionRequest) ToPipelineRequest(d Defaults) model.PipelineRequest {
	req := model.PipelineRequest{
		InputPath:       r.InputPath,
		ModelPath:       r.ModelPath,
		TranscriberPath: r.TranscriberPath,
	}
	if req.ModelPath == "" {
		req.ModelPath = d.ModelPath
	}
	if req.TranscriberPath == "" {
		req.TranscriberPath = d.TranscriberPath
	}
	return req
}

// SubmittedResponse is returned when a run was accepted but not awaited
type SubmittedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// OutcomeResponse is a finished run
type OutcomeResponse struct {
	RunID       string           `json:"run_id"`
	Stage       model.Stage      `json:"stage"`
	FailedStage model.Stage      `json:"failed_stage,omitempty"`
	Status      string           `json:"status"`
	Transcript  string           `json:"transcript"`
	OutputPath  string           `json:"output_path,omitempty"`
	Warning     string           `json:"warning,omitempty"`
	DurationMs  int64            `json:"duration_ms"`
	StageMs     map[string]int64 `json:"stage_ms,omitempty"`
}

func FromOutcome(o model.Outcome) OutcomeResponse {
	resp := OutcomeResponse{
		RunID:       o.RunID,
		Stage:       o.Stage,
		FailedStage: o.FailedStage,
		Status:      o.Status,
		Transcript:  o.Transcript,
		OutputPath:  o.OutputPath,
		DurationMs:  o.Duration().Milliseconds(),
	}
	if o.Warning != nil {
		resp.Warning = o.Warning.Error()
	}
	if len(o.Timings) > 0 {
		resp.StageMs = make(map[string]int64, len(o.Timings))
		for stage, d := range o.Timings {
			resp.StageMs[string(stage)] = d.Milliseconds()
		}
	}
	return resp
}

// ListRunsQuery represents query parameters for listing runs
type ListRunsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// DefaultListLimit is used when the query has no limit.
const DefaultListLimit = 50

// ListRunsResponse wraps history rows
type ListRunsResponse struct {
	Runs  []model.RunRecord `json:"runs"`
	Count int               `json:"count"`
}

// HealthResponse is served on /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

func NewHealthResponse(now time.Time) HealthResponse {
	return HealthResponse{Status: "healthy", Timestamp: now.Unix()}
}
