package project

type ProjectServicePort interface {
	CreateProject(userID uint, input CreateProjectInput) (ResearchProject, error)
	GetByTag(tag string) (ResearchProject, error)
	ListProjects(userID uint, page, pageSize int) (Page, error)
	GetDetail(userID uint, p ResearchProject) (ProjectDetail, error)
	UpdateProject(p ResearchProject, input UpdateProjectInput) (ResearchProject, error)
	DeleteProject(p ResearchProject) error

	RoleIn(userID uint, p ResearchProject) (string, error)
	HasAccess(userID uint, p ResearchProject) (bool, error)
	CanManage(userID uint, p ResearchProject) (bool, error)
	CanContribute(userID uint, p ResearchProject) (bool, error)

	AddCollaborator(p ResearchProject, invitedBy uint, usernameOrEmail, role string) (CollaboratorWithUser, error)
	GetCollaborator(p ResearchProject, collaboratorID uint) (Collaborator, error)
	UpdateCollaboratorRole(collab Collaborator, role string) (CollaboratorWithUser, error)
	RemoveCollaborator(collab Collaborator) (string, error)
}
