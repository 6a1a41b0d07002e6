package domain

import (
	"strings"
	"time"
)

// Comment stores one authored note attached to a task.
type Comment struct {
	ID        int64
	TaskID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
	Author    User
}

// NewComment constructs a normalized comment.
func NewComment(taskID, authorID int64, content string, now time.Time) (Comment, error) {
	if taskID <= 0 || authorID <= 0 {
		return Comment{}, ErrInvalidID
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, ErrInvalidContent
	}
	return Comment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now.UTC(),
	}, nil
}
