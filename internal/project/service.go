package project

import (
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"electrochem-data-api/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validation failures the controller maps to 4xx responses.
var (
	ErrTitleRequired       = errors.New("Title is required")
	ErrInvalidStatus       = errors.New("Invalid status")
	ErrInvalidRole         = errors.New("Invalid role")
	ErrRoleRequired        = errors.New("Role is required")
	ErrUserNotFound        = errors.New("User not found")
	ErrAlreadyHead         = errors.New("User is already the head researcher")
	ErrAlreadyCollaborator = errors.New("User is already a collaborator")
)

type ProjectService struct {
	DB *gorm.DB
}

// newProjectTag mints the public identifier: "RP-" plus the first eight
// hex characters of a fresh uuid, upper-cased.
func newProjectTag() string {
	u := uuid.New()
	return "RP-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

func (ps *ProjectService) CreateProject(userID uint, input CreateProjectInput) (ResearchProject, error) {
	if strings.TrimSpace(input.Title) == "" {
		return ResearchProject{}, ErrTitleRequired
	}

	p := ResearchProject{
		ProjectTag:       newProjectTag(),
		Title:            input.Title,
		Description:      input.Description,
		Status:           StatusActive,
		IsPublic:         input.IsPublic,
		HeadResearcherID: userID,
	}
	if err := ps.DB.Create(&p).Error; err != nil {
		return ResearchProject{}, err
	}
	return p, nil
}

func (ps *ProjectService) GetByTag(tag string) (ResearchProject, error) {
	var p ResearchProject
	if err := ps.DB.Where("project_tag = ?", tag).First(&p).Error; err != nil {
		return ResearchProject{}, err
	}
	return p, nil
}

// RoleIn reports the user's role in the project: "head" for the head
// researcher, the collaborator role otherwise, "" for outsiders.
func (ps *ProjectService) RoleIn(userID uint, p ResearchProject) (string, error) {
	if p.HeadResearcherID == userID {
		return "head", nil
	}
	var collab Collaborator
	err := ps.DB.Where("project_id = ? AND user_id = ?", p.ID, userID).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return collab.Role, nil
}

// HasAccess: head, public project, or any collaborator role.
func (ps *ProjectService) HasAccess(userID uint, p ResearchProject) (bool, error) {
	if p.IsPublic || p.HeadResearcherID == userID {
		return true, nil
	}
	role, err := ps.RoleIn(userID, p)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// CanManage: head or manager.
func (ps *ProjectService) CanManage(userID uint, p ResearchProject) (bool, error) {
	role, err := ps.RoleIn(userID, p)
	if err != nil {
		return false, err
	}
	return role == "head" || role == RoleManager, nil
}

// CanContribute: head, manager or contributor.
func (ps *ProjectService) CanContribute(userID uint, p ResearchProject) (bool, error) {
	role, err := ps.RoleIn(userID, p)
	if err != nil {
		return false, err
	}
	return role == "head" || role == RoleManager || role == RoleContributor, nil
}

// ListProjects pages through the projects the user heads or collaborates
// on, newest first.
func (ps *ProjectService) ListProjects(userID uint, page, pageSize int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	membership := `head_researcher_id = ?
		OR id IN (SELECT project_id FROM research_collaborators WHERE user_id = ?)`

	var count int64
	if err := ps.DB.Model(&ResearchProject{}).Where(membership, userID, userID).Count(&count).Error; err != nil {
		return Page{}, err
	}

	var projects []ResearchProject
	err := ps.DB.
		Where(membership, userID, userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	if err != nil {
		return Page{}, err
	}

	results := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summary := ProjectSummary{ResearchProject: p, IsHead: p.HeadResearcherID == userID}

		var head users.User
		if err := ps.DB.First(&head, p.HeadResearcherID).Error; err == nil {
			summary.HeadResearcher = head.Ref()
		}

		role, err := ps.RoleIn(userID, p)
		if err != nil {
			return Page{}, err
		}
		summary.Role = role

		if err := ps.DB.Table("file_uploads").Where("project_id = ?", p.ID).Count(&summary.DatasetsCount).Error; err != nil {
			return Page{}, err
		}

		results = append(results, summary)
	}

	numPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}

	return Page{
		Count:       count,
		NumPages:    numPages,
		CurrentPage: page,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
		Results:     results,
	}, nil
}

// GetDetail assembles the full project response: collaborators joined
// with their accounts and the ten most recent datasets.
func (ps *ProjectService) GetDetail(userID uint, p ResearchProject) (ProjectDetail, error) {
	detail := ProjectDetail{
		ResearchProject: p,
		Collaborators:   []CollaboratorWithUser{},
		Datasets:        []DatasetRef{},
		IsHead:          p.HeadResearcherID == userID,
	}

	var head users.User
	if err := ps.DB.First(&head, p.HeadResearcherID).Error; err == nil {
		detail.HeadResearcher = head.Ref()
	}

	role, err := ps.RoleIn(userID, p)
	if err != nil {
		return ProjectDetail{}, err
	}
	detail.UserRole = role

	var rows []struct {
		ID       uint
		UserID   uint
		Username string
		Email    string
		Role     string
		JoinedAt time.Time
	}
	err = ps.DB.
		Table("research_collaborators c").
		Select("c.id, c.user_id, u.username, u.email, c.role, c.joined_at").
		Joins("JOIN users u ON u.id = c.user_id").
		Where("c.project_id = ?", p.ID).
		Order("c.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return ProjectDetail{}, err
	}
	for _, r := range rows {
		detail.Collaborators = append(detail.Collaborators, CollaboratorWithUser{
			ID:       r.ID,
			User:     users.UserRef{ID: r.UserID, Username: r.Username, Email: r.Email},
			Role:     r.Role,
			JoinedAt: r.JoinedAt,
		})
	}

	err = ps.DB.
		Table("file_uploads").
		Select("id, file_name, data_type_id, version, uploaded_at").
		Where("project_id = ?", p.ID).
		Order("uploaded_at DESC").
		Limit(10).
		Scan(&detail.Datasets).Error
	if err != nil {
		return ProjectDetail{}, err
	}

	if err := ps.DB.Table("file_uploads").Where("project_id = ?", p.ID).Count(&detail.DatasetsCount).Error; err != nil {
		return ProjectDetail{}, err
	}

	return detail, nil
}

func (ps *ProjectService) UpdateProject(p ResearchProject, input UpdateProjectInput) (ResearchProject, error) {
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return ResearchProject{}, ErrTitleRequired
		}
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.IsPublic != nil {
		p.IsPublic = *input.IsPublic
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return ResearchProject{}, ErrInvalidStatus
		}
		p.Status = *input.Status
	}

	if err := ps.DB.Save(&p).Error; err != nil {
		return ResearchProject{}, err
	}
	return p, nil
}

// DeleteProject removes the project and its collaborator rows. Datasets
// keep their rows; their project reference goes dangling and access falls
// back to the dataset's own flag.
func (ps *ProjectService) DeleteProject(p ResearchProject) error {
	return ps.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", p.ID).Delete(&Collaborator{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

func (ps *ProjectService) AddCollaborator(p ResearchProject, invitedBy uint, usernameOrEmail, role string) (CollaboratorWithUser, error) {
	if role == "" {
		role = RoleViewer
	}
	if !ValidRole(role) {
		return CollaboratorWithUser{}, ErrInvalidRole
	}

	var user users.User
	err := ps.DB.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CollaboratorWithUser{}, ErrUserNotFound
	}
	if err != nil {
		return CollaboratorWithUser{}, err
	}

	if user.ID == p.HeadResearcherID {
		return CollaboratorWithUser{}, ErrAlreadyHead
	}

	var existing int64
	if err := ps.DB.Model(&Collaborator{}).Where("project_id = ? AND user_id = ?", p.ID, user.ID).Count(&existing).Error; err != nil {
		return CollaboratorWithUser{}, err
	}
	if existing > 0 {
		return CollaboratorWithUser{}, ErrAlreadyCollaborator
	}

	collab := Collaborator{ProjectID: p.ID, UserID: user.ID, Role: role, InvitedBy: invitedBy}
	if err := ps.DB.Create(&collab).Error; err != nil {
		return CollaboratorWithUser{}, err
	}

	return CollaboratorWithUser{ID: collab.ID, User: user.Ref(), Role: collab.Role, JoinedAt: collab.JoinedAt}, nil
}

func (ps *ProjectService) GetCollaborator(p ResearchProject, collaboratorID uint) (Collaborator, error) {
	var collab Collaborator
	err := ps.DB.Where("id = ? AND project_id = ?", collaboratorID, p.ID).First(&collab).Error
	if err != nil {
		return Collaborator{}, err
	}
	return collab, nil
}

func (ps *ProjectService) UpdateCollaboratorRole(collab Collaborator, role string) (CollaboratorWithUser, error) {
	if role == "" {
		return CollaboratorWithUser{}, ErrRoleRequired
	}
	if !ValidRole(role) {
		return CollaboratorWithUser{}, ErrInvalidRole
	}

	collab.Role = role
	if err := ps.DB.Save(&collab).Error; err != nil {
		return CollaboratorWithUser{}, err
	}

	var user users.User
	if err := ps.DB.First(&user, collab.UserID).Error; err != nil {
		return CollaboratorWithUser{}, err
	}

	return CollaboratorWithUser{ID: collab.ID, User: user.Ref(), Role: collab.Role, JoinedAt: collab.JoinedAt}, nil
}

func (ps *ProjectService) RemoveCollaborator(collab Collaborator) (string, error) {
	var user users.User
	if err := ps.DB.First(&user, collab.UserID).Error; err != nil {
		return "", err
	}
	if err := ps.DB.Delete(&collab).Error; err != nil {
		return "", err
	}
	return user.Username, nil
}
