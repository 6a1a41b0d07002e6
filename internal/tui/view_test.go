package tui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mlundekvam/tavle/internal/domain"
)

// TestBoardRenderShowsColumnsAndCards verifies behavior for the covered scenario.
func TestBoardRenderShowsColumnsAndCards(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))

	out := m.renderBoard(lipgloss.Color("241"), lipgloss.Color("239"))
	for _, want := range []string{"Fix login", "Ship filters", "To-do (1)", "In-Progress (1)", "In-Review (0)", "Done (0)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("board render missing %q:\n%s", want, out)
		}
	}
}

// TestProjectPickerFlowSwitchesRenderedBoard verifies behavior for the covered scenario.
func TestProjectPickerFlowSwitchesRenderedBoard(t *testing.T) {
	svc := newFakeService()
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.projects = append(svc.projects, domain.Project{ID: 2, Name: "Mobile", CreatedByID: 1, CreatedAt: now, UpdatedAt: now})
	m := loadReadyModel(t, NewModel(svc))
	if got, _ := m.currentProject(); got.Name != "Website" {
		t.Fatalf("initial project = %q, want Website", got.Name)
	}

	m = applyMsg(t, m, keyRune('p'))
	if m.mode != modeProjectPicker {
		t.Fatalf("mode = %d, want project picker", m.mode)
	}
	overlay := m.renderModeOverlay(lipgloss.Color("78"), lipgloss.Color("241"), 80)
	for _, want := range []string{"Projects", "Website", "Mobile"} {
		if !strings.Contains(overlay, want) {
			t.Fatalf("picker overlay missing %q:\n%s", want, overlay)
		}
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone {
		t.Fatal("picking a project should close the picker")
	}
	got, ok := m.currentProject()
	if !ok || got.Name != "Mobile" {
		t.Fatalf("active project = %q, want Mobile", got.Name)
	}
}
