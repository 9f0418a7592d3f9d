package logs

import (
	"electrochem-data-api/internal/middlewares"
	"electrochem-data-api/internal/users"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, logService *LogService, userService users.UserServicePort) {
	logController := &LogController{LogService: logService, UserService: userService}

	group := r.Group("/api/logs")
	group.Use(middlewares.AuthMiddleware())
	{
		group.POST("/query", logController.GetLogs)
	}
}
