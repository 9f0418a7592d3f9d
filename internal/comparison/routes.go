package comparison

import (
	"electrochem-data-api/internal/dataset"
	"electrochem-data-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, service ComparisonServicePort, datasets dataset.DatasetServicePort, logService LogServicePort) {
	controller := &ComparisonController{Service: service, Datasets: datasets, LogService: logService}

	comparisons := r.Group("/api/comparisons")
	comparisons.Use(middlewares.AuthMiddleware())
	{
		comparisons.GET("", controller.ListComparisons)
		comparisons.POST("", controller.CreateComparison)
		comparisons.GET("/:comparisonId", controller.GetComparison)
	}
}
