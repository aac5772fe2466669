package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/model"
)

// MockRunService is a mock implementation of services.RunService
type MockRunService struct {
	mock.Mock
}

func NewMockRunService(t *testing.T) *MockRunService {
	m := &MockRunService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRunService) Start(ctx context.Context, req model.PipelineRequest, rep jobs.Reporter) (string, error) {
	args := m.Called(ctx, req, rep)
	return args.String(0), args.Error(1)
}

func (m *MockRunService) Transcribe(ctx context.Context, req model.PipelineRequest) (model.Outcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Outcome), args.Error(1)
}

func (m *MockRunService) Cancel() error {
	return m.Called().Error(0)
}

func (m *MockRunService) Status() jobs.Status {
	return m.Called().Get(0).(jobs.Status)
}

func (m *MockRunService) History(ctx context.Context, limit int) ([]model.RunRecord, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]model.RunRecord)
	return runs, args.Error(1)
}

func (m *MockRunService) Run(ctx context.Context, runID string) (*model.RunRecord, error) {
	args := m.Called(ctx, runID)
	run, _ := args.Get(0).(*model.RunRecord)
	return run, args.Error(1)
}

// MockExecutableService is a mock implementation of services.ExecutableService
type MockExecutableService struct {
	mock.Mock
}

func (m *MockExecutableService) Describe() dto.ExecutablesResponse {
	return m.Called().Get(0).(dto.ExecutablesResponse)
}
