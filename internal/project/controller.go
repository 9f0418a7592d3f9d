package project

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"electrochem-data-api/internal/logs"
	"electrochem-data-api/internal/logutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LogServicePort interface {
	Log(log logs.SystemLog, metadata interface{}) error
}

type ProjectController struct {
	Service    ProjectServicePort
	LogService LogServicePort
}

func (pc *ProjectController) audit(action, message string, userID uint) {
	entry := logs.SystemLog{Level: "INFO", Service: "project", Action: action, Message: message, UserID: &userID}
	if err := pc.LogService.Log(entry, nil); err != nil {
		logutils.Log.WithError(err).Warn("failed to insert audit log")
	}
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return 0, false
	}
	f, ok := userIDVal.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return 0, false
	}
	return uint(f), true
}

// loadProject resolves the :projectId tag or writes the 404.
func (pc *ProjectController) loadProject(c *gin.Context) (ResearchProject, bool) {
	p, err := pc.Service.GetByTag(c.Param("projectId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return ResearchProject{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return ResearchProject{}, false
	}
	return p, true
}

func (pc *ProjectController) ListProjects(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := pc.Service.ListProjects(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := pc.Service.CreateProject(userID, input)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pc.audit("CREATE_PROJECT", fmt.Sprintf("Research project created : %s", p.ProjectTag), userID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Research project created successfully",
		"project": p,
	})
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	p, ok := pc.loadProject(c)
	if !ok {
		return
	}

	allowed, err := pc.Service.HasAccess(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this project"})
		return
	}

	detail, err := pc.Service.GetDetail(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	p, ok := pc.loadProject(c)
	if !ok {
		return
	}

	allowed, err := pc.Service.CanManage(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this project"})
		return
	}

	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := pc.Service.UpdateProject(p, input)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pc.audit("UPDATE_PROJECT", fmt.Sprintf("Research project updated : %s", updated.ProjectTag), userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Research project updated successfully",
		"project": updated,
	})
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	p, ok := pc.loadProject(c)
	if !ok {
		return
	}

	if p.HeadResearcherID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the head researcher can delete this project"})
		return
	}

	if err := pc.Service.DeleteProject(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pc.audit("DELETE_PROJECT", fmt.Sprintf("Research project deleted : %s", p.ProjectTag), userID)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Research project %q has been deleted", p.Title),
	})
}

type addCollaboratorInput struct {
	UsernameOrEmail string `json:"username_or_email"`
	Role            string `json:"role"`
}

func (pc *ProjectController) AddCollaborator(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	p, ok := pc.loadProject(c)
	if !ok {
		return
	}

	allowed, err := pc.Service.CanManage(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to add collaborators"})
		return
	}

	var input addCollaboratorInput
	if err := c.ShouldBindJSON(&input); err != nil || input.UsernameOrEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is required"})
		return
	}

	collab, err := pc.Service.AddCollaborator(p, userID, input.UsernameOrEmail, input.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrAlreadyHead), errors.Is(err, ErrAlreadyCollaborator):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	pc.audit("ADD_COLLABORATOR", fmt.Sprintf("Collaborator %s added to %s", collab.User.Username, p.ProjectTag), userID)

	c.JSON(http.StatusCreated, gin.H{
		"message":      fmt.Sprintf("Added %s as a %s", collab.User.Username, collab.Role),
		"collaborator": collab,
	})
}

// gateCollaborator loads the project, checks manage rights and resolves
// the :id collaborator row.
func (pc *ProjectController) gateCollaborator(c *gin.Context) (ResearchProject, Collaborator, uint, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return ResearchProject{}, Collaborator{}, 0, false
	}
	p, ok := pc.loadProject(c)
	if !ok {
		return ResearchProject{}, Collaborator{}, 0, false
	}

	allowed, err := pc.Service.CanManage(userID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return ResearchProject{}, Collaborator{}, 0, false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to manage collaborators"})
		return ResearchProject{}, Collaborator{}, 0, false
	}

	collabID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid collaborator id is required"})
		return ResearchProject{}, Collaborator{}, 0, false
	}

	collab, err := pc.Service.GetCollaborator(p, uint(collabID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collaborator not found"})
			return ResearchProject{}, Collaborator{}, 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return ResearchProject{}, Collaborator{}, 0, false
	}

	return p, collab, userID, true
}

type updateRoleInput struct {
	Role string `json:"role"`
}

func (pc *ProjectController) UpdateCollaborator(c *gin.Context) {
	p, collab, userID, ok := pc.gateCollaborator(c)
	if !ok {
		return
	}

	var input updateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := pc.Service.UpdateCollaboratorRole(collab, input.Role)
	if err != nil {
		if errors.Is(err, ErrRoleRequired) || errors.Is(err, ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pc.audit("UPDATE_COLLABORATOR", fmt.Sprintf("Collaborator role updated on %s", p.ProjectTag), userID)

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Updated role for %s to %s", updated.User.Username, updated.Role),
		"collaborator": updated,
	})
}

func (pc *ProjectController) RemoveCollaborator(c *gin.Context) {
	p, collab, userID, ok := pc.gateCollaborator(c)
	if !ok {
		return
	}

	username, err := pc.Service.RemoveCollaborator(collab)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pc.audit("REMOVE_COLLABORATOR", fmt.Sprintf("Collaborator %s removed from %s", username, p.ProjectTag), userID)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Removed %s from project", username),
	})
}
