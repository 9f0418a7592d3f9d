package lookup

import (
	"time"
)

// DataType is a reference row datasets must point at ("voltammetry",
// "protein", ...). The id is the string the frontend submits.
type DataType struct {
	ID        string    `gorm:"primaryKey;size:50" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DataType) TableName() string {
	return "data_types"
}

// DataCategory tags a dataset with its publication status.
type DataCategory struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:20;not null;default:'research'" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DataCategory) TableName() string {
	return "data_categories"
}
