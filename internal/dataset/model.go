package dataset

import (
	"time"
)

// FileUpload is one immutable version of an uploaded dataset. The raw file
// content lives inline in the row; a "new version" is a fresh row sharing
// the same LogicalFileID with Version bumped by one. Rows are never
// mutated after insert (DownloadsCount aside) and never deleted.
type FileUpload struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LogicalFileID  uint      `gorm:"index;column:logical_file_id" json:"logical_file_id"`
	FileName       string    `gorm:"size:255;not null" json:"file_name"`
	Content        string    `gorm:"type:text" json:"-"`
	FileSize       int64     `gorm:"not null" json:"file_size"`
	Delimiter      string    `gorm:"size:5;default:','" json:"delimiter"`
	Description    string    `gorm:"type:text" json:"description"`
	Method         string    `gorm:"size:100" json:"method"`
	ElectrodeType  string    `gorm:"size:100;column:electrode_type" json:"electrode_type"`
	Instrument     string    `gorm:"size:100" json:"instrument"`
	DataTypeID     string    `gorm:"size:50;not null;column:data_type_id" json:"data_type"`
	CategoryID     *int      `gorm:"column:category_id" json:"category,omitempty"`
	IsPublic       bool      `gorm:"default:false" json:"is_public"`
	Version        int       `gorm:"not null;default:1" json:"version"`
	Changes        string    `gorm:"type:text" json:"changes"`
	ProjectID      *uint     `gorm:"column:project_id;index" json:"project_id,omitempty"`
	UploadedBy     uint      `gorm:"not null;index" json:"uploaded_by"`
	DownloadsCount int       `gorm:"not null;default:0;column:downloads_count" json:"downloads_count"`
	UploadedAt     time.Time `gorm:"autoCreateTime;column:uploaded_at" json:"uploaded_at"`
}

func (FileUpload) TableName() string {
	return "file_uploads"
}

// CreateUploadInput carries the validated upload form.
type CreateUploadInput struct {
	FileName      string
	Content       string
	FileSize      int64
	DataTypeID    string
	CategoryID    *int
	Description   string
	AccessLevel   string // "public" or "private"
	Method        string
	ElectrodeType string
	Instrument    string
	Delimiter     string
	ProjectTag    string // public "RP-…" tag, resolved to the row id on create
	UploadedBy    uint
}

// VersionWithUser is one row of a version history listing.
type VersionWithUser struct {
	ID         uint      `json:"id"`
	Version    int       `json:"version"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
	UploadedBy string    `json:"uploaded_by" gorm:"column:uploaded_by"`
	Changes    string    `json:"changes"`
}

// DatasetSummary is the browse-listing shape (no content).
type DatasetSummary struct {
	ID             uint      `json:"id"`
	LogicalFileID  uint      `json:"logical_file_id"`
	FileName       string    `json:"file_name"`
	FileSize       int64     `json:"file_size"`
	Description    string    `json:"description"`
	DataTypeID     string    `json:"data_type" gorm:"column:data_type_id"`
	IsPublic       bool      `json:"is_public"`
	Version        int       `json:"version"`
	DownloadsCount int       `json:"downloads_count"`
	UploadedAt     time.Time `json:"uploaded_at"`
	Username       string    `json:"uploaded_by" gorm:"column:username"`
}

// NewVersionInput is the POST body for the version endpoint.
type NewVersionInput struct {
	FileContent string `json:"file_content" binding:"required"`
	Changes     string `json:"changes"`
}
