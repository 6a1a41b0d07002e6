package domain

import (
	"sort"
	"strings"
	"time"
)

// Task represents one board card with its denormalized relations attached.
type Task struct {
	ID          int64
	ProjectID   int64
	ParentID    *int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Assignees []User
	Labels    []Label
	Comments  []Comment
	Subtasks  []TaskStub
	Parent    *TaskStub
}

// TaskStub carries the identity fields of a related task without its relations.
type TaskStub struct {
	ID     int64
	Title  string
	Status Status
}

// TaskInput holds input values for task creation.
type TaskInput struct {
	ProjectID   int64
	ParentID    *int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
}

// NewTask constructs a normalized task. The ID is assigned by the repository
// on insert. Status defaults to TODO and priority to MEDIUM.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.ProjectID <= 0 {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !in.Status.IsValid() {
		return Task{}, ErrInvalidStatus
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.IsValid() {
		return Task{}, ErrInvalidPriority
	}

	return Task{
		ProjectID:   in.ProjectID,
		ParentID:    in.ParentID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// UpdateDetails replaces title and description. An empty trimmed title is
// rejected so a committed card never loses its title.
func (t *Task) UpdateDetails(title, description string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	t.Title = title
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = now.UTC()
	return nil
}

// SetStatus moves the task to another board column.
func (t *Task) SetStatus(status Status, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = now.UTC()
	return nil
}

// SortByPriority orders tasks by the fixed priority order, URGENT first.
// The sort is stable so the repository's updatedAt ordering breaks ties.
func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
	})
}

// PartitionByStatus splits one loaded task collection into board-ordered
// status buckets. Partitioning is a pure filter; relative order within a
// bucket is preserved.
func PartitionByStatus(tasks []Task) map[Status][]Task {
	out := make(map[Status][]Task, len(boardStatuses))
	for _, status := range boardStatuses {
		out[status] = []Task{}
	}
	for _, task := range tasks {
		out[task.Status] = append(out[task.Status], task)
	}
	return out
}
