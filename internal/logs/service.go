package logs

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"electrochem-data-api/internal/logutils"
	"electrochem-data-api/internal/util"

	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Log persists one audit row. metadata (map/struct) is stored as a JSON
// string when provided.
func (ls *LogService) Log(log SystemLog, metadata interface{}) error {
	var metaStr *string

	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			// row still goes in, just without metadata
			logutils.Log.WithError(err).WithField("action", log.Action).Warn("failed to marshal log metadata")
		} else {
			str := string(b)
			metaStr = &str
		}
	}

	newLog := SystemLog{
		Level:     log.Level,
		Service:   log.Service,
		UserID:    log.UserID,
		Action:    log.Action,
		Message:   log.Message,
		FileName:  log.FileName,
		Metadata:  metaStr,
		CreatedAt: time.Now(),
	}

	return ls.DB.Create(&newLog).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]LogRow, int64, int, error) {
	// Defaults
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := ls.DB.
		Table("logs").
		Select("logs.*, u.username as username").
		Joins("LEFT JOIN users u ON logs.user_id = u.id")

	// Default: last 30 days if no dates
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.UserID != nil {
		base = base.Where("logs.user_id = ?", *input.UserID)
	}
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("logs.level = ?", strings.TrimSpace(*input.Level))
	}
	if input.Service != nil && strings.TrimSpace(*input.Service) != "" {
		base = base.Where("logs.service = ?", strings.TrimSpace(*input.Service))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("logs.action = ?", strings.TrimSpace(*input.Action))
	}
	if input.FileName != nil && strings.TrimSpace(*input.FileName) != "" {
		base = base.Where("COALESCE(logs.file_name,'') LIKE ?", "%"+strings.TrimSpace(*input.FileName)+"%")
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, 0, err
	}
	if hasStart {
		base = base.Where("logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("logs.created_at < ?", endExclusive)
	}

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.TrimSpace(*input.Search) + "%"
		base = base.Where(
			`logs.level LIKE ?
			 OR logs.service LIKE ?
			 OR logs.action LIKE ?
			 OR logs.message LIKE ?
			 OR COALESCE(logs.file_name,'') LIKE ?
			 OR COALESCE(u.username,'') LIKE ?`,
			like, like, like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []LogRow
	if err := base.
		Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, 0, err
	}

	return rows, total, totalPages, nil
}
