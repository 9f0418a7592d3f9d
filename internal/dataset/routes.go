package dataset

import (
	"electrochem-data-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, service DatasetServicePort, logService LogServicePort) {
	controller := &DatasetController{Service: service, LogService: logService}

	// Reads go through the optional middleware so anonymous callers can
	// reach public datasets; the access gate does the rest.
	public := r.Group("/api/datasets")
	public.Use(middlewares.OptionalAuthMiddleware())
	{
		public.GET("", controller.ListDatasets)
		public.GET("/download", controller.DownloadDataset)
		public.GET("/:id/versions", controller.GetVersions)
		public.GET("/:id/preview", controller.PreviewDataset)
	}

	authed := r.Group("/api/datasets")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/upload", controller.UploadDataset)
		authed.POST("/:id/versions", controller.CreateVersion)
		authed.POST("/:id/revert", controller.RevertVersion)
	}
}
