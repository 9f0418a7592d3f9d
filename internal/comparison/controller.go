package comparison

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"electrochem-data-api/internal/dataset"
	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/logutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogServicePort interface {
	Log(log logs.SystemLog, metadata interface{}) error
}

type ComparisonController struct {
	Service    ComparisonServicePort
	Datasets   dataset.DatasetServicePort
	LogService LogServicePort
}

func (cc *ComparisonController) audit(action, message string, userID uint) {
	entry := logs.SystemLog{Level: "INFO", Service: "comparison", Action: action, Message: message, UserID: &userID}
	if err := cc.LogService.Log(entry, nil); err != nil {
		logutils.Log.WithError(err).Warn("failed to insert audit log")
	}
}

func (cc *ComparisonController) principalFromContext(c *gin.Context) (dataset.Principal, bool) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return dataset.Principal{}, false
	}
	f, ok := userIDVal.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return dataset.Principal{}, false
	}

	uid := uint(f)
	p, err := cc.Datasets.PrincipalFor(&uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return dataset.Principal{}, false
	}
	return p, true
}

func (cc *ComparisonController) CreateComparison(c *gin.Context) {
	p, ok := cc.principalFromContext(c)
	if !ok {
		return
	}

	var input CreateComparisonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comp, err := cc.Service.CreateComparison(p, input)
	if err != nil {
		var missing *DatasetMissingError
		var forbidden *DatasetAccessError
		switch {
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrTooFewDatasets):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &missing):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &forbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	cc.audit("CREATE_COMPARISON", fmt.Sprintf("Dataset comparison created : %s", comp.ComparisonTag), p.UserID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Dataset comparison created successfully",
		"comparison": gin.H{
			"id":            comp.ComparisonTag,
			"title":         comp.Title,
			"description":   comp.Description,
			"created_at":    comp.CreatedAt,
			"dataset_count": len(comp.DatasetIDs),
		},
	})
}

func (cc *ComparisonController) ListComparisons(c *gin.Context) {
	p, ok := cc.principalFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := cc.Service.ListComparisons(p.UserID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (cc *ComparisonController) GetComparison(c *gin.Context) {
	p, ok := cc.principalFromContext(c)
	if !ok {
		return
	}

	comp, err := cc.Service.GetByTag(c.Param("comparisonId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comparison not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	allowed, err := cc.Service.CanView(p, comp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this comparison"})
		return
	}

	detail, err := cc.Service.GetDetail(comp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}
