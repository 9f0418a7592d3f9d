package project

import (
	"time"

	"electrochem-data-api/internal/users"
)

// Collaborator roles, ordered by capability.
const (
	RoleViewer      = "viewer"
	RoleContributor = "contributor"
	RoleManager     = "manager"
)

func ValidRole(role string) bool {
	switch role {
	case RoleViewer, RoleContributor, RoleManager:
		return true
	}
	return false
}

// Project lifecycle states.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ResearchProject groups datasets under a head researcher. ProjectTag is
// the public identifier ("RP-" + 8 hex chars) the API routes on; the
// numeric id stays internal.
type ResearchProject struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ProjectTag       string    `gorm:"size:20;uniqueIndex;not null;column:project_tag" json:"id"`
	Title            string    `gorm:"size:200;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Status           string    `gorm:"size:20;default:'active'" json:"status"`
	IsPublic         bool      `gorm:"default:false" json:"is_public"`
	HeadResearcherID uint      `gorm:"not null;index;column:head_researcher_id" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ResearchProject) TableName() string {
	return "research_projects"
}

// Collaborator is one user's membership in a project. A user appears at
// most once per project; the head researcher is never a collaborator row.
type Collaborator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_user;column:project_id" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_user;column:user_id" json:"-"`
	Role      string    `gorm:"size:20;default:'viewer'" json:"role"`
	InvitedBy uint      `gorm:"column:invited_by" json:"-"`
	JoinedAt  time.Time `gorm:"autoCreateTime;column:joined_at" json:"joined_at"`
}

func (Collaborator) TableName() string {
	return "research_collaborators"
}

// CreateProjectInput is the POST body for project creation.
type CreateProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpdateProjectInput carries a partial update; nil fields are untouched.
type UpdateProjectInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	Status      *string `json:"status"`
}

// CollaboratorWithUser is a collaborator row joined with its account.
type CollaboratorWithUser struct {
	ID       uint          `json:"id"`
	User     users.UserRef `json:"user"`
	Role     string        `json:"role"`
	JoinedAt time.Time     `json:"joined_at"`
}

// ProjectSummary is one row of the paginated project listing.
type ProjectSummary struct {
	ResearchProject
	HeadResearcher users.UserRef `json:"head_researcher"`
	IsHead         bool          `json:"is_head"`
	Role           string        `json:"role"`
	DatasetsCount  int64         `json:"datasets_count"`
}

// DatasetRef is the trimmed dataset shape embedded in project details.
type DatasetRef struct {
	ID         uint      `json:"id" gorm:"column:id"`
	FileName   string    `json:"file_name" gorm:"column:file_name"`
	DataTypeID string    `json:"data_type" gorm:"column:data_type_id"`
	Version    int       `json:"version" gorm:"column:version"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

// ProjectDetail is the full single-project response.
type ProjectDetail struct {
	ResearchProject
	HeadResearcher users.UserRef          `json:"head_researcher"`
	Collaborators  []CollaboratorWithUser `json:"collaborators"`
	Datasets       []DatasetRef           `json:"datasets"`
	DatasetsCount  int64                  `json:"datasets_count"`
	IsHead         bool                   `json:"is_head"`
	UserRole       string                 `json:"user_role"`
}

// Page is the pagination envelope list endpoints share.
type Page struct {
	Count       int64       `json:"count"`
	NumPages    int         `json:"num_pages"`
	CurrentPage int         `json:"current_page"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
	Results     interface{} `json:"results"`
}
