package lookup

import (
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, lookupService LookupServiceAPI, cacheTTL time.Duration) {
	lookupController := &LookupController{Service: lookupService, CacheTTL: cacheTTL}

	group := r.Group("/lookup")
	{
		group.GET("/datatypes", lookupController.GetAllDataTypes)
		group.GET("/categories", lookupController.GetAllCategories)
	}
}
