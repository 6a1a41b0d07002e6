// Package common holds the board-facing service port and the wire records
// shared by the HTTP and MCP transports.
package common

import (
	"context"
	"time"

	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

// BoardService is the slice of the application service the transports drive.
type BoardService interface {
	CreateTask(ctx context.Context, in app.CreateTaskInput) (domain.Task, error)
	UpdateTaskDetails(ctx context.Context, in app.UpdateTaskInput) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, status domain.Status) (domain.Task, error)
	ReplaceTaskLabels(ctx context.Context, taskID int64, labelIDs []int64) error
	ListTasks(ctx context.Context, in app.ListTasksInput) ([]domain.Task, error)
	GetTask(ctx context.Context, taskID int64) (domain.Task, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, name, description string, createdByID int64) (domain.Project, error)
	AddComment(ctx context.Context, taskID, authorID int64, content string) (domain.Comment, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
}

// TaskRecord is the denormalized wire shape of one task.
type TaskRecord struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"projectId"`
	ParentID    *int64          `json:"parentId,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Assignees   []UserRecord    `json:"assignees"`
	Labels      []LabelRecord   `json:"labels"`
	Comments    []CommentRecord `json:"comments"`
	Subtasks    []StubRecord    `json:"subtasks"`
	Parent      *StubRecord     `json:"parent,omitempty"`
}

// StubRecord carries the identity fields of a related task.
type StubRecord struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// LabelRecord is the wire shape of one label.
type LabelRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UserRecord is the wire shape of one user. Password hashes never cross a
// transport.
type UserRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommentRecord is the wire shape of one comment.
type CommentRecord struct {
	ID        int64      `json:"id"`
	TaskID    int64      `json:"taskId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Author    UserRecord `json:"author"`
}

// ProjectRecord is the wire shape of one project.
type ProjectRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskRecordFrom converts a domain task to its wire shape.
func TaskRecordFrom(t domain.Task) TaskRecord {
	rec := TaskRecord{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		ParentID:    t.ParentID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Assignees:   []UserRecord{},
		Labels:      []LabelRecord{},
		Comments:    []CommentRecord{},
		Subtasks:    []StubRecord{},
	}
	for _, u := range t.Assignees {
		rec.Assignees = append(rec.Assignees, UserRecordFrom(u))
	}
	for _, l := range t.Labels {
		rec.Labels = append(rec.Labels, LabelRecord(l))
	}
	for _, c := range t.Comments {
		rec.Comments = append(rec.Comments, CommentRecordFrom(c))
	}
	for _, s := range t.Subtasks {
		rec.Subtasks = append(rec.Subtasks, StubRecord{ID: s.ID, Title: s.Title, Status: string(s.Status)})
	}
	if t.Parent != nil {
		rec.Parent = &StubRecord{ID: t.Parent.ID, Title: t.Parent.Title, Status: string(t.Parent.Status)}
	}
	return rec
}

// TaskRecordsFrom converts a task slice to wire shape.
func TaskRecordsFrom(tasks []domain.Task) []TaskRecord {
	out := []TaskRecord{}
	for _, t := range tasks {
		out = append(out, TaskRecordFrom(t))
	}
	return out
}

// UserRecordFrom converts a domain user to its wire shape.
func UserRecordFrom(u domain.User) UserRecord {
	return UserRecord{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CommentRecordFrom converts a domain comment to its wire shape.
func CommentRecordFrom(c domain.Comment) CommentRecord {
	return CommentRecord{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    UserRecordFrom(c.Author),
	}
}

// ProjectRecordFrom converts a domain project to its wire shape.
func ProjectRecordFrom(p domain.Project) ProjectRecord {
	return ProjectRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedByID: p.CreatedByID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
