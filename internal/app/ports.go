package app

import (
	"context"

	"github.com/mlundekvam/tavle/internal/domain"
)

// TaskFilter narrows a task listing to one project and, optionally, to tasks
// carrying at least one of the given labels.
type TaskFilter struct {
	ProjectID int64
	LabelIDs  []int64
}

// Repository is the storage port the service drives. Create methods return
// the stored record with its repository-assigned ID.
type Repository interface {
	CreateUser(context.Context, domain.User) (domain.User, error)
	GetUser(context.Context, int64) (domain.User, error)
	GetUserByEmail(context.Context, string) (domain.User, error)
	ListUsers(context.Context) ([]domain.User, error)

	CreateProject(context.Context, domain.Project) (domain.Project, error)
	UpdateProject(context.Context, domain.Project) error
	GetProject(context.Context, int64) (domain.Project, error)
	ListProjects(context.Context) ([]domain.Project, error)
	ListProjectsForUser(context.Context, int64) ([]domain.Project, error)
	DeleteProject(context.Context, int64) error
	AddProjectMember(context.Context, int64, int64, domain.MemberRole) error

	CreateLabel(context.Context, domain.Label) (domain.Label, error)
	ListLabels(context.Context) ([]domain.Label, error)

	CreateTask(context.Context, domain.Task) (domain.Task, error)
	UpdateTask(context.Context, domain.Task) error
	GetTask(context.Context, int64) (domain.Task, error)
	ListTasks(context.Context, TaskFilter) ([]domain.Task, error)
	ReplaceTaskLabels(context.Context, int64, []int64) error
	AssignTask(context.Context, int64, int64) error

	CreateComment(context.Context, domain.Comment) (domain.Comment, error)
}
