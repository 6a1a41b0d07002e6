package domain

import "strings"

// Label tags tasks across projects. Color is a hex string like "#ef4444".
type Label struct {
	ID    int64
	Name  string
	Color string
}

// NewLabel constructs a normalized label.
func NewLabel(name, color string) (Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Label{}, ErrInvalidName
	}
	color = strings.TrimSpace(strings.ToLower(color))
	if !isHexColor(color) {
		return Label{}, ErrInvalidColor
	}
	return Label{Name: name, Color: color}, nil
}

// isHexColor reports whether the value is a "#rrggbb" hex color.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
