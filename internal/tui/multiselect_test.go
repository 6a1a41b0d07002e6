package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/mlundekvam/tavle/internal/domain"
)

func testLabels() []domain.Label {
	return []domain.Label{
		{ID: 1, Name: "Bug", Color: "#ef4444"},
		{ID: 2, Name: "Feature", Color: "#3b82f6"},
		{ID: 3, Name: "Documentation", Color: "#8b5cf6"},
	}
}

func typeQuery(t *testing.T, s multiSelect, query string) multiSelect {
	t.Helper()
	for _, r := range query {
		var changed bool
		s, changed, _ = s.Update(keyRune(r))
		if changed {
			t.Fatalf("typing %q must not change the selection", query)
		}
	}
	return s
}

func TestMultiSelectQueryNarrowsCandidates(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	_ = s.Focus()

	if got := len(s.candidates()); got != 3 {
		t.Fatalf("candidates = %d, want all 3", got)
	}

	s = typeQuery(t, s, "bug")
	candidates := s.candidates()
	if len(candidates) != 1 || candidates[0].Name != "Bug" {
		t.Fatalf("candidates after %q = %+v, want [Bug]", "bug", candidates)
	}
}

func TestMultiSelectEnterSelectsAndClearsQuery(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	_ = s.Focus()

	s = typeQuery(t, s, "feat")
	s, changed, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !changed {
		t.Fatal("selecting a label must report a change")
	}
	if got := s.Selected(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Selected() = %v, want [2]", got)
	}
	if s.input.Value() != "" {
		t.Fatalf("query = %q, want cleared after selection", s.input.Value())
	}

	for _, label := range s.candidates() {
		if label.ID == 2 {
			t.Fatal("selected label must leave the candidate list")
		}
	}
}

func TestMultiSelectBackspaceRemovesMostRecent(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	s.selected = []int64{1, 3}

	s, changed, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if !changed {
		t.Fatal("removing a chip must report a change")
	}
	if got := s.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Selected() = %v, want [1]", got)
	}

	s, changed, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if !changed || len(s.Selected()) != 0 {
		t.Fatalf("Selected() = %v, want empty after second removal", s.Selected())
	}

	s, changed, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if changed {
		t.Fatal("backspace on an empty selection must not report a change")
	}
}

func TestMultiSelectDeleteRemovesMostRecent(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	s.selected = []int64{1, 2}

	s, changed, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyDelete})
	if !changed {
		t.Fatal("delete on an empty query must remove the last chip")
	}
	if got := s.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Selected() = %v, want [1]", got)
	}
}

func TestMultiSelectBackspaceEditsQueryBeforeChips(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	s.selected = []int64{1}
	_ = s.Focus()
	s = typeQuery(t, s, "d")

	s, changed, _ := s.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if changed {
		t.Fatal("backspace with query text must edit the query, not the chips")
	}
	if got := s.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Selected() = %v, want [1] untouched", got)
	}
}

func TestMultiSelectBlurKeepsSelection(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	s.selected = []int64{2, 3}
	_ = s.Focus()
	s = typeQuery(t, s, "bu")

	s.Blur()
	if got := s.Selected(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("Selected() = %v, want [2 3] after blur", got)
	}
	if s.input.Value() != "" {
		t.Fatal("blur must reset the query text")
	}
}

func TestMultiSelectSetOptionsPrunesStaleSelection(t *testing.T) {
	s := newMultiSelect()
	s.SetOptions(testLabels())
	s.selected = []int64{1, 99}

	s.SetOptions(testLabels())
	if got := s.Selected(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Selected() = %v, want stale id pruned", got)
	}
}
