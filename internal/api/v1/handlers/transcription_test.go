package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whisper-offline/internal/api/middleware"
	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/api/v1/routes"
	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/testutil"
)

var defaults = dto.Defaults{
	ModelPath:       "/models/ggml-base.en.bin",
	TranscriberPath: "/opt/homebrew/bin/whisper",
}

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockRunService, *testutil.MockExecutableService) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(nopLogger()))

	runs := testutil.NewMockRunService(t)
	executables := &testutil.MockExecutableService{}
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		RunService:        runs,
		ExecutableService: executables,
		Defaults:          defaults,
	})
	return router, runs, executables
}

func doJSON(router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestTranscriptionHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setupMocks     func(*testutil.MockRunService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]any)
	}{
		{
			name: "submitted with defaults",
			body: dto.CreateTranscriptionRequest{InputPath: "/media/talk.mp4"},
			setupMocks: func(m *testutil.MockRunService) {
				m.On("Start", mock.Anything, model.PipelineRequest{
					InputPath:       "/media/talk.mp4",
					ModelPath:       defaults.ModelPath,
					TranscriberPath: defaults.TranscriberPath,
				}, nil).Return("run-1", nil)
			},
			expectedStatus: http.StatusAccepted,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "run-1", body["run_id"])
				assert.Equal(t, "submitted", body["status"])
			},
		},
		{
			name: "wait returns the outcome",
			body: dto.CreateTranscriptionRequest{InputPath: "/media/talk.mp4", ModelPath: "/m/small.bin", Wait: true},
			setupMocks: func(m *testutil.MockRunService) {
				start := time.Now()
				m.On("Transcribe", mock.Anything, mock.MatchedBy(func(r model.PipelineRequest) bool {
					return r.ModelPath == "/m/small.bin" && r.TranscriberPath == defaults.TranscriberPath
				})).Return(model.Outcome{
					RunID:      "run-2",
					Stage:      model.StageDone,
					Status:     "done, output at /tmp/whisper_input_x.txt",
					Transcript: "hello world",
					StartedAt:  start,
					FinishedAt: start.Add(1500 * time.Millisecond),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "hello world", body["transcript"])
				assert.Equal(t, "done", body["stage"])
				assert.Equal(t, float64(1500), body["duration_ms"])
			},
		},
		{
			name:           "missing input path",
			body:           map[string]string{"model_path": "/m.bin"},
			setupMocks:     func(m *testutil.MockRunService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]any)
				assert.Equal(t, "is required", details["input_path"])
			},
		},
		{
			name:           "blank input path",
			body:           dto.CreateTranscriptionRequest{InputPath: "   "},
			setupMocks:     func(m *testutil.MockRunService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "busy worker",
			body: dto.CreateTranscriptionRequest{InputPath: "/media/talk.mp4"},
			setupMocks: func(m *testutil.MockRunService) {
				m.On("Start", mock.Anything, mock.Anything, nil).Return("", apperrors.ErrJobAlreadyRunning)
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "job_running", body["code"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
		{
			name:           "malformed json",
			body:           "not an object",
			setupMocks:     func(m *testutil.MockRunService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, runs, _ := setupTestRouter(t)
			tt.setupMocks(runs)

			w, body := doJSON(router, http.MethodPost, "/api/v1/transcriptions", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.validateBody != nil {
				tt.validateBody(t, body)
			}
		})
	}
}

func TestTranscriptionHandler_CreateMissingModel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(nopLogger()))
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		RunService: testutil.NewMockRunService(t),
		Defaults:   dto.Defaults{TranscriberPath: "/usr/local/bin/whisper"},
	})

	w, body := doJSON(router, http.MethodPost, "/api/v1/transcriptions", dto.CreateTranscriptionRequest{InputPath: "/media/a.wav"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid request: model path is required", body["message"])
}

func TestTranscriptionHandler_WaitReportsCancelledOutcome(t *testing.T) {
	router, runs, _ := setupTestRouter(t)
	runs.On("Transcribe", mock.Anything, mock.Anything).
		Return(model.Outcome{Stage: model.StageCancelled, FailedStage: model.StageTranscribing, Status: "cancelled during transcription"}, nil)

	w, body := doJSON(router, http.MethodPost, "/api/v1/transcriptions", dto.CreateTranscriptionRequest{InputPath: "/a.mp4", Wait: true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", body["stage"])
	assert.Equal(t, "transcribing", body["failed_stage"])
	assert.Equal(t, "", body["transcript"])
}

func TestTranscriptionHandler_List(t *testing.T) {
	router, runs, _ := setupTestRouter(t)
	runs.On("History", mock.Anything, dto.DefaultListLimit).Return([]model.RunRecord{{ID: 1, RunID: "a", Stage: model.StageDone}}, nil)
	runs.On("History", mock.Anything, 5).Return(nil, nil)

	w, body := doJSON(router, http.MethodGet, "/api/v1/transcriptions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = doJSON(router, http.MethodGet, "/api/v1/transcriptions?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["runs"])

	w, _ = doJSON(router, http.MethodGet, "/api/v1/transcriptions?limit=0x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranscriptionHandler_Get(t *testing.T) {
	router, runs, _ := setupTestRouter(t)
	runs.On("Run", mock.Anything, "abc").Return(&model.RunRecord{RunID: "abc", Stage: model.StageFailed, Status: "normalization failed: bad codec"}, nil)
	runs.On("Run", mock.Anything, "nope").Return(nil, apperrors.NotFound("run", "nope"))

	w, body := doJSON(router, http.MethodGet, "/api/v1/transcriptions/abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "normalization failed: bad codec", body["status"])

	w, body = doJSON(router, http.MethodGet, "/api/v1/transcriptions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "run not found: nope", body["message"])
}

func TestTranscriptionHandler_CancelAndStatus(t *testing.T) {
	router, runs, _ := setupTestRouter(t)
	runs.On("Cancel").Return(apperrors.ErrNoRunningJob).Once()
	runs.On("Cancel").Return(nil).Once()
	runs.On("Status").Return(jobs.Status{RunID: "r", Stage: model.StageTranscribing, Running: true})

	w, body := doJSON(router, http.MethodPost, "/api/v1/transcriptions/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_job", body["code"])

	w, body = doJSON(router, http.MethodPost, "/api/v1/transcriptions/cancel", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "transcribing", body["stage"])

	w, body = doJSON(router, http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["running"])
}

func TestTranscriptionHandler_InternalError(t *testing.T) {
	router, runs, _ := setupTestRouter(t)
	runs.On("History", mock.Anything, mock.Anything).Return(nil, apperrors.Wrap(assert.AnError, "query failed"))

	w, body := doJSON(router, http.MethodGet, "/api/v1/transcriptions", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", body["kind"])
}

func TestExecutableHandler_List(t *testing.T) {
	router, _, executables := setupTestRouter(t)
	executables.On("Describe").Return(dto.ExecutablesResponse{
		Normalizer:  dto.ExecutableInfo{Configured: "ffmpeg", Resolved: "/usr/bin/ffmpeg", Found: true},
		Transcriber: dto.ExecutableInfo{Configured: "/opt/homebrew/bin/whisper", Resolved: "/opt/homebrew/bin/whisper"},
	})

	w, body := doJSON(router, http.MethodGet, "/api/v1/executables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	normalizer := body["normalizer"].(map[string]any)
	assert.Equal(t, true, normalizer["found"])
	assert.Equal(t, "/usr/bin/ffmpeg", normalizer["resolved"])
}
