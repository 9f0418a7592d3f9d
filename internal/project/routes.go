package project

import (
	"electrochem-data-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, service ProjectServicePort, logService LogServicePort) {
	controller := &ProjectController{Service: service, LogService: logService}

	projects := r.Group("/api/projects")
	projects.Use(middlewares.AuthMiddleware())
	{
		projects.GET("", controller.ListProjects)
		projects.POST("", controller.CreateProject)
		projects.GET("/:projectId", controller.GetProject)
		projects.PUT("/:projectId", controller.UpdateProject)
		projects.DELETE("/:projectId", controller.DeleteProject)
		projects.POST("/:projectId/collaborators", controller.AddCollaborator)
		projects.PUT("/:projectId/collaborators/:id", controller.UpdateCollaborator)
		projects.DELETE("/:projectId/collaborators/:id", controller.RemoveCollaborator)
	}
}
