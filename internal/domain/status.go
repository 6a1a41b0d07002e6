package domain

import "strings"

// Status identifies the board column a task sits in.
type Status string

// Board columns in display order.
const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
)

// boardStatuses fixes the left-to-right column order of the board.
var boardStatuses = []Status{StatusTodo, StatusInProgress, StatusReview, StatusDone}

// Statuses returns the board columns in display order.
func Statuses() []Status {
	out := make([]Status, len(boardStatuses))
	copy(out, boardStatuses)
	return out
}

// ParseStatus normalizes raw input into a board column. Unknown values are
// rejected rather than mapped to a default column.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValid reports whether the status names a board column.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	default:
		return false
	}
}

// Title returns the column heading shown on the board.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To-do"
	case StatusInProgress:
		return "In-Progress"
	case StatusReview:
		return "In-Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}
