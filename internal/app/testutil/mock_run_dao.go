package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/repository"
)

var _ repository.RunDAO = (*MockRunDAO)(nil)

// MockRunDAO is an in-memory repository.RunDAO.
// Calls are recorded through mock.Mock; expectations are optional and only
// consulted when the test registered one for the method via On(...).
type MockRunDAO struct {
	mock.Mock
	mu sync.Mutex

	runs   []model.RunRecord
	nextID int64

	// ErrorMap forces a method to fail: method name -> error
	ErrorMap map[string]error
}

// NewMockRunDAO creates an empty MockRunDAO
func NewMockRunDAO() *MockRunDAO {
	return &MockRunDAO{nextID: 1, ErrorMap: make(map[string]error)}
}

func (m *MockRunDAO) hasExpectation(method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}

func (m *MockRunDAO) Close() error {
	if m.hasExpectation("Close") {
		return m.Called().Error(0)
	}
	return m.ErrorMap["Close"]
}

func (m *MockRunDAO) RecordRun(ctx context.Context, run model.RunRecord) (int64, error) {
	if m.hasExpectation("RecordRun") {
		args := m.Called(ctx, run)
		return args.Get(0).(int64), args.Error(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrorMap["RecordRun"]; err != nil {
		return 0, err
	}
	run.ID = m.nextID
	m.nextID++
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *MockRunDAO) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if m.hasExpectation("ListRuns") {
		args := m.Called(ctx, limit)
		runs, _ := args.Get(0).([]model.RunRecord)
		return runs, args.Error(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrorMap["ListRuns"]; err != nil {
		return nil, err
	}
	out := append([]model.RunRecord(nil), m.runs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRunDAO) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	if m.hasExpectation("GetRun") {
		args := m.Called(ctx, runID)
		run, _ := args.Get(0).(*model.RunRecord)
		return run, args.Error(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ErrorMap["GetRun"]; err != nil {
		return nil, err
	}
	for i := range m.runs {
		if m.runs[i].RunID == runID {
			r := m.runs[i]
			return &r, nil
		}
	}
	return nil, apperrors.NotFound("run", runID)
}

// Runs returns a snapshot of everything recorded so far, oldest first.
func (m *MockRunDAO) Runs() []model.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.RunRecord(nil), m.runs...)
}
