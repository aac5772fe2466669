package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whisper-offline/internal/api/v1/services"
)

// ExecutableHandler reports where ffmpeg and whisper.cpp will be launched from
type ExecutableHandler struct {
	service services.ExecutableService
}

func NewExecutableHandler(service services.ExecutableService) *ExecutableHandler {
	return &ExecutableHandler{service: service}
}

// List handles GET /api/v1/executables
func (h *ExecutableHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Describe())
}
