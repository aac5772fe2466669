package routes

import (
	"github.com/gin-gonic/gin"

	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/api/v1/handlers"
	"whisper-offline/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	RunService        services.RunService
	ExecutableService services.ExecutableService
	Defaults          dto.Defaults
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.RunService, container.Defaults)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", transcriptionHandler.Create)
		transcriptions.POST("/cancel", transcriptionHandler.Cancel)
		transcriptions.GET("", transcriptionHandler.List)
		transcriptions.GET("/:id", transcriptionHandler.Get)
	}
	router.GET("/status", transcriptionHandler.Status)

	if container.ExecutableService != nil {
		executableHandler := handlers.NewExecutableHandler(container.ExecutableService)
		router.GET("/executables", executableHandler.List)
	}
}
