package comparison

import (
	"time"

	"electrochem-data-api/internal/users"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// DatasetComparison records a cross-dataset analysis run. ComparisonTag
// ("CMP-" + 8 hex chars) is the public identifier; the referenced dataset
// ids live in a text[] column so a comparison survives dataset deletion
// checks without foreign keys.
type DatasetComparison struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	ComparisonTag string         `gorm:"size:20;uniqueIndex;not null;column:comparison_tag" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	CreatedBy     uint           `gorm:"not null;index;column:created_by" json:"-"`
	IsPublic      bool           `gorm:"default:false" json:"is_public"`
	DatasetIDs    pq.StringArray `gorm:"type:text[];column:dataset_ids" json:"-"`
	Results       datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (DatasetComparison) TableName() string {
	return "dataset_comparisons"
}

// CreateComparisonInput is the POST body.
type CreateComparisonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DatasetIDs  []uint `json:"dataset_ids"`
	IsPublic    bool   `json:"is_public"`
}

// ComparisonSummary is one row of the paginated listing.
type ComparisonSummary struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	CreatedAt    time.Time     `json:"created_at"`
	DatasetCount int           `json:"dataset_count"`
	IsPublic     bool          `json:"is_public"`
	CreatedBy    users.UserRef `json:"created_by"`
}

// ComparedDataset is the per-dataset metadata in a detail response. Error
// is set when the referenced dataset no longer resolves.
type ComparedDataset struct {
	ID         uint      `json:"id"`
	FileName   string    `json:"file_name"`
	DataTypeID string    `json:"data_type,omitempty"`
	Version    int       `json:"version,omitempty"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ComparisonDetail is the full single-comparison response.
type ComparisonDetail struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	IsPublic    bool              `json:"is_public"`
	CreatedBy   users.UserRef     `json:"created_by"`
	Datasets    []ComparedDataset `json:"datasets"`
	Results     interface{}       `json:"results"`
}

// Page is the pagination envelope.
type Page struct {
	Count       int64       `json:"count"`
	NumPages    int         `json:"num_pages"`
	CurrentPage int         `json:"current_page"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
	Results     interface{} `json:"results"`
}
