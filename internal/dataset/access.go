package dataset

// Role names collaborators can hold on a research project.
const (
	RoleViewer      = "viewer"
	RoleContributor = "contributor"
	RoleManager     = "manager"
)

type AccessLevel int

const (
	NoAccess AccessLevel = iota
	ReadOnly
	ReadWrite
)

func (a AccessLevel) CanRead() bool  { return a >= ReadOnly }
func (a AccessLevel) CanWrite() bool { return a == ReadWrite }

// Principal is the requesting identity, resolved before the decision.
type Principal struct {
	Authenticated bool
	UserID        uint
	IsStaff       bool
}

// ProjectVisibility is the owning project's access-relevant state.
type ProjectVisibility struct {
	IsPublic         bool
	HeadResearcherID uint
	// Roles maps collaborator user id to role name.
	Roles map[uint]string
}

// DatasetVisibility is everything EvaluateAccess needs about a dataset.
// Project is nil when the dataset belongs to no research project.
type DatasetVisibility struct {
	OwnerID  uint
	IsPublic bool
	Project  *ProjectVisibility
}

// EvaluateAccess decides what the principal may do with the dataset.
// Pure decision table, first matching rule wins:
//
//	staff                          -> read-write
//	owner                          -> read-write
//	dataset or project public      -> read-only
//	project head/contributor/mgr   -> read-write, viewer -> read-only
//	otherwise                      -> no access
func EvaluateAccess(p Principal, d DatasetVisibility) AccessLevel {
	if p.Authenticated && p.IsStaff {
		return ReadWrite
	}
	if p.Authenticated && p.UserID == d.OwnerID {
		return ReadWrite
	}
	if d.IsPublic || (d.Project != nil && d.Project.IsPublic) {
		return ReadOnly
	}
	if p.Authenticated && d.Project != nil {
		if d.Project.HeadResearcherID == p.UserID {
			return ReadWrite
		}
		switch d.Project.Roles[p.UserID] {
		case RoleContributor, RoleManager:
			return ReadWrite
		case RoleViewer:
			return ReadOnly
		}
	}
	return NoAccess
}
