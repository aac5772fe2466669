package services

import (
	"context"

	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/model"
)

// RunService is the part of the converter the HTTP layer needs.
type RunService interface {
	Start(ctx context.Context, req model.PipelineRequest, rep jobs.Reporter) (string, error)
	Transcribe(ctx context.Context, req model.PipelineRequest) (model.Outcome, error)
	Cancel() error
	Status() jobs.Status
	History(ctx context.Context, limit int) ([]model.RunRecord, error)
	Run(ctx context.Context, runID string) (*model.RunRecord, error)
}

// ExecutableService reports tool discovery results.
type ExecutableService interface {
	Describe() dto.ExecutablesResponse
}
