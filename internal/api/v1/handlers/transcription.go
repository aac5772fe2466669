package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"whisper-offline/internal/api/errors"
	"whisper-offline/internal/api/middleware"
	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/api/v1/services"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/pipeline"
)

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	service  services.RunService
	defaults dto.Defaults
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.RunService, defaults dto.Defaults) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:  service,
		defaults: defaults,
	}
}

// Create handles POST /api/v1/transcriptions
//
// Without "wait" the run is started in the background and 202 is returned
// with its run ID. With "wait" the response is the finished outcome; the
// run is cancelled if the client goes away first.
func (h *TranscriptionHandler) Create(c *gin.Context) {
	var req dto.CreateTranscriptionRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	pipelineReq := req.ToPipelineRequest(h.defaults)
	if err := pipeline.ValidateRequest(pipelineReq); err != nil {
		middleware.HandleError(c, err)
		return
	}

	if req.Wait {
		outcome, err := h.service.Transcribe(c.Request.Context(), pipelineReq)
		if err != nil {
			middleware.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromOutcome(outcome))
		return
	}

	runID, err := h.service.Start(context.WithoutCancel(c.Request.Context()), pipelineReq, nil)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.SubmittedResponse{RunID: runID, Status: "submitted"})
}

// Get handles GET /api/v1/transcriptions/:id
func (h *TranscriptionHandler) Get(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid run ID"))
		return
	}

	run, err := h.service.Run(c.Request.Context(), runID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// List handles GET /api/v1/transcriptions
func (h *TranscriptionHandler) List(c *gin.Context) {
	var query dto.ListRunsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}
	if query.Limit == 0 {
		query.Limit = dto.DefaultListLimit
	}

	runs, err := h.service.History(c.Request.Context(), query.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if runs == nil {
		runs = []model.RunRecord{}
	}
	c.JSON(http.StatusOK, dto.ListRunsResponse{Runs: runs, Count: len(runs)})
}

// Cancel handles POST /api/v1/transcriptions/cancel
func (h *TranscriptionHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.service.Status())
}

// Status handles GET /api/v1/status
func (h *TranscriptionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}
