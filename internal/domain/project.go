package domain

import (
	"strings"
	"time"
)

// MemberRole identifies a user's role within a project.
type MemberRole string

// Member role values.
const (
	RoleOwner  MemberRole = "OWNER"
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

// ParseMemberRole canonicalizes a raw role value.
func ParseMemberRole(raw string) (MemberRole, error) {
	role := MemberRole(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return role, nil
	}
	return "", ErrInvalidRole
}

// Project owns a board of tasks and a member list.
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedByID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Members     []ProjectMember
}

// ProjectMember attaches one user to a project with a role.
type ProjectMember struct {
	UserID int64
	Role   MemberRole
	User   User
}

// NewProject constructs a normalized project. Every project has exactly one
// creator; the repository adds the creator as OWNER in the same transaction
// as the insert.
func NewProject(name, description string, createdByID int64, now time.Time) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, ErrInvalidName
	}
	if createdByID <= 0 {
		return Project{}, ErrInvalidID
	}
	return Project{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedByID: createdByID,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// UpdateDetails replaces name and description.
func (p *Project) UpdateDetails(name, description string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = now.UTC()
	return nil
}
