package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/mlundekvam/tavle/internal/domain"
)

// statusGlyphs maps each board column to its one-cell icon.
var statusGlyphs = map[domain.Status]string{
	domain.StatusTodo:       "○",
	domain.StatusInProgress: "◐",
	domain.StatusReview:     "◑",
	domain.StatusDone:       "●",
}

// statusAccents maps each board column to its accent color.
var statusAccents = map[domain.Status]color.Color{
	domain.StatusTodo:       lipgloss.Color("245"),
	domain.StatusInProgress: lipgloss.Color("214"),
	domain.StatusReview:     lipgloss.Color("135"),
	domain.StatusDone:       lipgloss.Color("78"),
}

// StatusGlyph returns the column icon for a status. An unrecognized status
// gets a neutral placeholder so it can never pass for a completed card.
func StatusGlyph(status domain.Status) string {
	if glyph, ok := statusGlyphs[status]; ok {
		return glyph
	}
	return "·"
}

// statusAccent returns the accent color for a column header and border.
func statusAccent(status domain.Status) color.Color {
	if accent, ok := statusAccents[status]; ok {
		return accent
	}
	return lipgloss.Color("241")
}
