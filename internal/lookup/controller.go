package lookup

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LookupController serves the reference tables. Responses are cached in
// process for CacheTTL since the tables change only on admin seeding.
type LookupController struct {
	Service  LookupServiceAPI
	CacheTTL time.Duration

	mu               sync.Mutex
	dataTypes        []DataType
	dataTypesExpiry  time.Time
	categories       []DataCategory
	categoriesExpiry time.Time
}

func (lc *LookupController) GetAllDataTypes(c *gin.Context) {
	lc.mu.Lock()
	if lc.dataTypes != nil && time.Now().Before(lc.dataTypesExpiry) {
		cached := lc.dataTypes
		lc.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"message":    "Data types fetched successfully",
			"data_types": cached,
		})
		return
	}
	lc.mu.Unlock()

	dataTypes, err := lc.Service.GetAllDataTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lc.mu.Lock()
	lc.dataTypes = dataTypes
	lc.dataTypesExpiry = time.Now().Add(lc.CacheTTL)
	lc.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":    "Data types fetched successfully",
		"data_types": dataTypes,
	})
}

func (lc *LookupController) GetAllCategories(c *gin.Context) {
	lc.mu.Lock()
	if lc.categories != nil && time.Now().Before(lc.categoriesExpiry) {
		cached := lc.categories
		lc.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{
			"message":    "Categories fetched successfully",
			"categories": cached,
		})
		return
	}
	lc.mu.Unlock()

	categories, err := lc.Service.GetAllCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lc.mu.Lock()
	lc.categories = categories
	lc.categoriesExpiry = time.Now().Add(lc.CacheTTL)
	lc.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":    "Categories fetched successfully",
		"categories": categories,
	})
}
