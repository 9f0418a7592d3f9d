package logs

import (
	"time"
)

type SystemLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string    `gorm:"size:20;not null" json:"level"`
	Service   string    `gorm:"size:100;not null" json:"service"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Action    string    `gorm:"size:255;not null" json:"action"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	FileName  *string   `gorm:"size:512;column:file_name" json:"file_name,omitempty"`
	Metadata  *string   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SystemLog) TableName() string {
	return "logs"
}

type LogFilterInput struct {
	UserID   *uint   `json:"user_id"`
	Level    *string `json:"level"`
	Service  *string `json:"service"`
	Action   *string `json:"action"`
	FileName *string `json:"file_name"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD" or RFC3339
	EndDate   *string `json:"end_date"`

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type LogRow struct {
	SystemLog
	Username string `json:"username" gorm:"column:username"`
}
