package tui

import (
	"image/color"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mlundekvam/tavle/internal/domain"
)

// multiSelect drives the label filter: a query box narrowing the remaining
// candidates plus the ordered set of already-selected chips.
type multiSelect struct {
	input    textinput.Model
	options  []domain.Label
	selected []int64
	index    int
}

// newMultiSelect constructs a new value for this package.
func newMultiSelect() multiSelect {
	in := textinput.New()
	in.Prompt = "labels: "
	in.Placeholder = "type to narrow labels"
	in.CharLimit = 60
	return multiSelect{input: in}
}

// SetOptions replaces the candidate labels and prunes selected ids that no
// longer resolve to a label.
func (s *multiSelect) SetOptions(labels []domain.Label) {
	s.options = labels
	kept := s.selected[:0]
	for _, id := range s.selected {
		if _, ok := s.labelByID(id); ok {
			kept = append(kept, id)
		}
	}
	s.selected = kept
	s.index = 0
}

// Selected returns the chosen label ids in selection order.
func (s multiSelect) Selected() []int64 {
	return append([]int64(nil), s.selected...)
}

// Focus focuses the query input.
func (s *multiSelect) Focus() tea.Cmd {
	s.input.SetValue("")
	s.index = 0
	return s.input.Focus()
}

// Blur blurs the query input without touching the selection.
func (s *multiSelect) Blur() {
	s.input.Blur()
	s.input.SetValue("")
	s.index = 0
}

// Update applies one key press. The changed result reports whether the
// selected set differs from before the key, which is the caller's cue to
// refilter the board.
func (s multiSelect) Update(msg tea.KeyPressMsg) (multiSelect, bool, tea.Cmd) {
	switch msg.String() {
	case "enter":
		candidates := s.candidates()
		if len(candidates) == 0 {
			return s, false, nil
		}
		pick := candidates[clamp(s.index, 0, len(candidates)-1)]
		s.selected = append(s.selected, pick.ID)
		s.input.SetValue("")
		s.index = 0
		return s, true, nil
	case "backspace", "delete":
		if s.input.Value() == "" && len(s.selected) > 0 {
			s.selected = s.selected[:len(s.selected)-1]
			s.index = 0
			return s, true, nil
		}
	case "down", "ctrl+n":
		if s.index < len(s.candidates())-1 {
			s.index++
		}
		return s, false, nil
	case "up", "ctrl+p":
		if s.index > 0 {
			s.index--
		}
		return s, false, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.index = clamp(s.index, 0, max(0, len(s.candidates())-1))
	return s, false, cmd
}

// candidates returns the labels still selectable under the current query.
// Matching is a case-insensitive substring test on the label name.
func (s multiSelect) candidates() []domain.Label {
	query := strings.ToLower(strings.TrimSpace(s.input.Value()))
	out := make([]domain.Label, 0, len(s.options))
	for _, label := range s.options {
		if slices.Contains(s.selected, label.ID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(label.Name), query) {
			continue
		}
		out = append(out, label)
	}
	return out
}

// labelByID resolves one selected id against the loaded options.
func (s multiSelect) labelByID(id int64) (domain.Label, bool) {
	for _, label := range s.options {
		if label.ID == id {
			return label, true
		}
	}
	return domain.Label{}, false
}

// view renders the chips, the query input and the candidate list.
func (s multiSelect) view(accent, muted color.Color) string {
	chipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Padding(0, 1)
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	pickStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	lines := []string{}
	if len(s.selected) > 0 {
		chips := make([]string, 0, len(s.selected))
		for _, id := range s.selected {
			if label, ok := s.labelByID(id); ok {
				chips = append(chips, chipStyle.Render(label.Name))
			}
		}
		lines = append(lines, strings.Join(chips, " "))
	}
	lines = append(lines, s.input.View())

	candidates := s.candidates()
	if len(candidates) == 0 {
		lines = append(lines, hintStyle.Render("(no matching labels)"))
	} else {
		pick := clamp(s.index, 0, len(candidates)-1)
		for idx, label := range candidates {
			row := "  " + label.Name
			if idx == pick {
				row = pickStyle.Render("│ " + label.Name)
			}
			lines = append(lines, row)
		}
	}
	lines = append(lines, hintStyle.Render("enter add • backspace remove last • esc close"))
	return strings.Join(lines, "\n")
}
