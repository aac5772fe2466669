package repository

import (
	"context"

	"whisper-offline/internal/app/model"
)

// RunDAO persists pipeline run history.
type RunDAO interface {
	Close() error

	// RecordRun stores one finished run and returns its row ID.
	RecordRun(ctx context.Context, run model.RunRecord) (int64, error)

	// ListRuns returns the newest runs first. limit <= 0 returns all rows.
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)

	// GetRun looks a run up by its run ID.
	GetRun(ctx context.Context, runID string) (*model.RunRecord, error)
}

// NoopDAO is used when history is disabled.
type NoopDAO struct{}

func (NoopDAO) Close() error { return nil }

func (NoopDAO) RecordRun(context.Context, model.RunRecord) (int64, error) { return 0, nil }

func (NoopDAO) ListRuns(context.Context, int) ([]model.RunRecord, error) { return nil, nil }

func (NoopDAO) GetRun(context.Context, string) (*model.RunRecord, error) { return nil, nil }
