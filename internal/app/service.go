package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlundekvam/tavle/internal/config"
	"github.com/mlundekvam/tavle/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig holds configuration for the board service.
type ServiceConfig struct {
	// Sort selects the default ordering of an unfiltered task listing.
	Sort config.SortOrder
}

// Service implements the board operations over a Repository.
type Service struct {
	repo  Repository
	clock Clock
	sort  config.SortOrder
}

// NewService constructs the board service.
func NewService(repo Repository, clock Clock, cfg ServiceConfig) *Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.Sort == "" {
		cfg.Sort = config.SortPriority
	}
	return &Service{
		repo:  repo,
		clock: clock,
		sort:  cfg.Sort,
	}
}

// CreateTaskInput holds input values for task creation.
type CreateTaskInput struct {
	ProjectID   int64
	ParentID    *int64
	Title       string
	Description string
	Status      domain.Status
}

// CreateTask creates a task in the given column. Status defaults to TODO and
// priority to MEDIUM. A parent reference must point into the same project.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	task, err := domain.NewTask(domain.TaskInput{
		ProjectID:   in.ProjectID,
		ParentID:    in.ParentID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}, s.clock())
	if err != nil {
		return domain.Task{}, err
	}

	if in.ParentID != nil {
		parent, err := s.repo.GetTask(ctx, *in.ParentID)
		if err != nil {
			return domain.Task{}, fmt.Errorf("resolve parent task: %w", err)
		}
		if parent.ProjectID != in.ProjectID {
			return domain.Task{}, domain.ErrParentProject
		}
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	return s.repo.GetTask(ctx, created.ID)
}

// UpdateTaskInput holds input values for title/description updates.
type UpdateTaskInput struct {
	TaskID      int64
	Title       string
	Description string
}

// UpdateTaskDetails replaces a task's title and description and returns the
// full record with relations re-attached.
func (s *Service) UpdateTaskDetails(ctx context.Context, in UpdateTaskInput) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, in.TaskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := task.UpdateDetails(in.Title, in.Description, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return s.repo.GetTask(ctx, task.ID)
}

// UpdateTaskStatus moves a task to another column. Callers are expected to
// skip the call entirely when the status is unchanged; the service does not
// treat a same-status update as an error.
func (s *Service) UpdateTaskStatus(ctx context.Context, taskID int64, status domain.Status) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := task.SetStatus(status, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return s.repo.GetTask(ctx, task.ID)
}

// ReplaceTaskLabels replaces the full label set of a task. The repository
// performs the swap in one transaction so a failure cannot strand the task
// with no labels.
func (s *Service) ReplaceTaskLabels(ctx context.Context, taskID int64, labelIDs []int64) error {
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	return s.repo.ReplaceTaskLabels(ctx, taskID, labelIDs)
}

// ListTasksInput holds input values for task listing.
type ListTasksInput struct {
	ProjectID int64
	LabelIDs  []int64
}

// ListTasks returns the project's tasks with relations attached. A label
// filter lists most-recently-updated first; the unfiltered listing follows
// the configured sort order (ascending priority by default).
func (s *Service) ListTasks(ctx context.Context, in ListTasksInput) ([]domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, TaskFilter{
		ProjectID: in.ProjectID,
		LabelIDs:  in.LabelIDs,
	})
	if err != nil {
		return nil, err
	}
	if len(in.LabelIDs) == 0 && s.sort == config.SortPriority {
		domain.SortByPriority(tasks)
	}
	return tasks, nil
}

// GetTask returns one task with relations attached.
func (s *Service) GetTask(ctx context.Context, taskID int64) (domain.Task, error) {
	return s.repo.GetTask(ctx, taskID)
}

// ListLabels returns all labels.
func (s *Service) ListLabels(ctx context.Context) ([]domain.Label, error) {
	return s.repo.ListLabels(ctx)
}

// CreateProject creates a project and adds the creator as its OWNER member.
func (s *Service) CreateProject(ctx context.Context, name, description string, createdByID int64) (domain.Project, error) {
	project, err := domain.NewProject(name, description, createdByID, s.clock())
	if err != nil {
		return domain.Project{}, err
	}
	created, err := s.repo.CreateProject(ctx, project)
	if err != nil {
		return domain.Project{}, err
	}
	return s.repo.GetProject(ctx, created.ID)
}

// UpdateProject replaces a project's name and description.
func (s *Service) UpdateProject(ctx context.Context, projectID int64, name, description string) (domain.Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return domain.Project{}, err
	}
	if err := project.UpdateDetails(name, description, s.clock()); err != nil {
		return domain.Project{}, err
	}
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return domain.Project{}, err
	}
	return s.repo.GetProject(ctx, projectID)
}

// DeleteProject removes a project. Tasks, memberships, comments and label
// associations go with it; this is the only way a task is destroyed.
func (s *Service) DeleteProject(ctx context.Context, projectID int64) error {
	return s.repo.DeleteProject(ctx, projectID)
}

// ListProjects returns every project.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ListProjects(ctx)
}

// ListMyProjects returns the projects the user is a member of.
func (s *Service) ListMyProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	return s.repo.ListProjectsForUser(ctx, userID)
}

// GetProject returns one project with its members.
func (s *Service) GetProject(ctx context.Context, projectID int64) (domain.Project, error) {
	return s.repo.GetProject(ctx, projectID)
}

// AddComment attaches a comment to a task.
func (s *Service) AddComment(ctx context.Context, taskID, authorID int64, content string) (domain.Comment, error) {
	comment, err := domain.NewComment(taskID, authorID, content, s.clock())
	if err != nil {
		return domain.Comment{}, err
	}
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return domain.Comment{}, err
	}
	return s.repo.CreateComment(ctx, comment)
}

// AssignTask adds a user to a task's assignee set.
func (s *Service) AssignTask(ctx context.Context, taskID, userID int64) error {
	if _, err := s.repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.AssignTask(ctx, taskID, userID)
}

// Authenticate checks a login against the stored password hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	user.PasswordHash = ""
	return user, nil
}

// RegisterUser creates a user with a bcrypt-hashed password.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := domain.NewUser(name, email, string(hash))
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.CreateUser(ctx, user)
}
