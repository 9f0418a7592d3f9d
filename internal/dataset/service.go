package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"electrochem-data-api/internal/lookup"
	"electrochem-data-api/internal/users"

	"gorm.io/gorm"
)

// Validation failures the controller maps to 400 responses.
var (
	ErrEmptyFileName   = errors.New("File name is required")
	ErrNotUTF8         = errors.New("File content is not valid UTF-8 text")
	ErrInvalidDataType = errors.New("Invalid data type")
	ErrInvalidCategory = errors.New("Invalid category")
	ErrInvalidProject  = errors.New("Invalid project")
)

type DatasetService struct {
	DB *gorm.DB
}

func (ds *DatasetService) PrincipalFor(userID *uint) (Principal, error) {
	if userID == nil {
		return Principal{}, nil
	}

	var user users.User
	if err := ds.DB.First(&user, *userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Token for a deleted account: treat as anonymous.
			return Principal{}, nil
		}
		return Principal{}, err
	}

	return Principal{
		Authenticated: true,
		UserID:        user.ID,
		IsStaff:       users.IsStaff(user.Role),
	}, nil
}

func (ds *DatasetService) CreateUpload(input CreateUploadInput) (FileUpload, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return FileUpload{}, ErrEmptyFileName
	}
	if !utf8.ValidString(input.Content) {
		return FileUpload{}, ErrNotUTF8
	}

	var dataType lookup.DataType
	if err := ds.DB.First(&dataType, "id = ?", input.DataTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileUpload{}, ErrInvalidDataType
		}
		return FileUpload{}, err
	}

	if input.CategoryID != nil {
		var category lookup.DataCategory
		if err := ds.DB.First(&category, *input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return FileUpload{}, ErrInvalidCategory
			}
			return FileUpload{}, err
		}
	}

	var projectID *uint
	if input.ProjectTag != "" {
		var project struct{ ID uint }
		err := ds.DB.
			Table("research_projects").
			Select("id").
			Where("project_tag = ?", input.ProjectTag).
			Scan(&project).Error
		if err != nil {
			return FileUpload{}, err
		}
		if project.ID == 0 {
			return FileUpload{}, ErrInvalidProject
		}
		projectID = &project.ID
	}

	delimiter := input.Delimiter
	if delimiter == "" {
		delimiter = ","
	}

	upload := FileUpload{
		FileName:      input.FileName,
		Content:       input.Content,
		FileSize:      input.FileSize,
		Delimiter:     delimiter,
		Description:   input.Description,
		Method:        input.Method,
		ElectrodeType: input.ElectrodeType,
		Instrument:    input.Instrument,
		DataTypeID:    input.DataTypeID,
		CategoryID:    input.CategoryID,
		IsPublic:      input.AccessLevel == "public",
		Version:       1,
		ProjectID:     projectID,
		UploadedBy:    input.UploadedBy,
	}
	if err := ds.DB.Create(&upload).Error; err != nil {
		return FileUpload{}, err
	}

	// Version 1 anchors its own chain.
	if err := ds.DB.Model(&upload).UpdateColumn("logical_file_id", upload.ID).Error; err != nil {
		return FileUpload{}, err
	}
	upload.LogicalFileID = upload.ID

	return upload, nil
}

func (ds *DatasetService) GetByID(id uint) (FileUpload, error) {
	var upload FileUpload
	if err := ds.DB.First(&upload, id).Error; err != nil {
		return FileUpload{}, err
	}
	return upload, nil
}

func (ds *DatasetService) ListDatasets(p Principal) ([]DatasetSummary, error) {
	summaries := []DatasetSummary{}

	base := ds.DB.
		Table("file_uploads f").
		Select("f.id, f.logical_file_id, f.file_name, f.file_size, f.description, f.data_type_id, f.is_public, f.version, f.downloads_count, f.uploaded_at, u.username").
		Joins("LEFT JOIN users u ON u.id = f.uploaded_by").
		Order("f.uploaded_at DESC")

	switch {
	case p.Authenticated && p.IsStaff:
		// staff sees everything
	case p.Authenticated:
		base = base.Where(`
			f.is_public = ?
			OR f.uploaded_by = ?
			OR f.project_id IN (
				SELECT project_id FROM research_collaborators WHERE user_id = ?
				UNION
				SELECT id FROM research_projects WHERE head_researcher_id = ?
			)`, true, p.UserID, p.UserID, p.UserID)
	default:
		base = base.Where("f.is_public = ?", true)
	}

	if err := base.Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (ds *DatasetService) VisibilityFor(f FileUpload) (DatasetVisibility, error) {
	vis := DatasetVisibility{OwnerID: f.UploadedBy, IsPublic: f.IsPublic}
	if f.ProjectID == nil {
		return vis, nil
	}

	var project struct {
		ID               uint
		IsPublic         bool
		HeadResearcherID uint
	}
	err := ds.DB.
		Table("research_projects").
		Select("id, is_public, head_researcher_id").
		Where("id = ?", *f.ProjectID).
		Scan(&project).Error
	if err != nil {
		return DatasetVisibility{}, err
	}
	if project.ID == 0 {
		// dangling project reference: fall back to the dataset's own flag
		return vis, nil
	}

	var collabs []struct {
		UserID uint
		Role   string
	}
	err = ds.DB.
		Table("research_collaborators").
		Select("user_id, role").
		Where("project_id = ?", project.ID).
		Scan(&collabs).Error
	if err != nil {
		return DatasetVisibility{}, err
	}

	roles := make(map[uint]string, len(collabs))
	for _, c := range collabs {
		roles[c.UserID] = c.Role
	}

	vis.Project = &ProjectVisibility{
		IsPublic:         project.IsPublic,
		HeadResearcherID: project.HeadResearcherID,
		Roles:            roles,
	}
	return vis, nil
}

func (ds *DatasetService) ListVersions(logicalFileID uint) ([]VersionWithUser, error) {
	versions := []VersionWithUser{}

	err := ds.DB.
		Table("file_uploads f").
		Select("f.id, f.version, f.uploaded_at, COALESCE(u.username, '') AS uploaded_by, f.changes").
		Joins("LEFT JOIN users u ON u.id = f.uploaded_by").
		Where("f.logical_file_id = ?", logicalFileID).
		Order("f.version ASC").
		Scan(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// CreateNewVersion appends an immutable successor to the chain: every
// metadata field of the source row is copied, version is bumped, content
// is replaced. The source row is not touched. Two racing callers can both
// read the same version and insert duplicates; the chain stays append-only
// either way, so this mirrors the read-then-insert the original did.
func (ds *DatasetService) CreateNewVersion(existingID uint, newContent, changes string) (FileUpload, error) {
	if !utf8.ValidString(newContent) {
		return FileUpload{}, ErrNotUTF8
	}

	var existing FileUpload
	if err := ds.DB.First(&existing, existingID).Error; err != nil {
		return FileUpload{}, err
	}

	successor := existing
	successor.ID = 0
	successor.Version = existing.Version + 1
	successor.Content = newContent
	successor.FileSize = int64(len(newContent))
	successor.Changes = changes
	// zero value lets autoCreateTime stamp the new row
	successor.UploadedAt = time.Time{}

	if err := ds.DB.Create(&successor).Error; err != nil {
		return FileUpload{}, err
	}
	return successor, nil
}

// RevertToVersion publishes an old version's content as the newest one.
// Nothing is rolled back in place; the chain only ever grows.
func (ds *DatasetService) RevertToVersion(logicalFileID uint, version int) (FileUpload, error) {
	var target FileUpload
	err := ds.DB.
		Where("logical_file_id = ? AND version = ?", logicalFileID, version).
		First(&target).Error
	if err != nil {
		return FileUpload{}, err
	}

	var latest FileUpload
	err = ds.DB.
		Where("logical_file_id = ?", logicalFileID).
		Order("version DESC").
		First(&latest).Error
	if err != nil {
		return FileUpload{}, err
	}

	return ds.CreateNewVersion(latest.ID, target.Content, fmt.Sprintf("Reverted to version %d", version))
}

// IncrementDownloads advances the counter with a single UPDATE so
// concurrent downloads never lose increments.
func (ds *DatasetService) IncrementDownloads(id uint) error {
	result := ds.DB.
		Model(&FileUpload{}).
		Where("id = ?", id).
		UpdateColumn("downloads_count", gorm.Expr("downloads_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
