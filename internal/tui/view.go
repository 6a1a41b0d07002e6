package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mlundekvam/tavle/internal/domain"
)

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		return boardView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready {
		return boardView("loading...")
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	accent := statusAccent(m.currentStatus())
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	bannerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1)

	if len(m.projects) == 0 {
		sections := []string{
			titleStyle.Render("tavle"),
			"",
			"No projects yet.",
			"Press N to create your first project.",
			"Press q to quit.",
		}
		if strings.TrimSpace(m.status) != "" && m.status != "ready" {
			sections = append(sections, "", statusStyle.Render(m.status))
		}
		return m.finishView(strings.Join(sections, "\n"), accent, muted, dim)
	}

	project := m.projects[clamp(m.selectedProject, 0, len(m.projects)-1)]

	header := titleStyle.Render("tavle") + "  " + project.Name
	if m.grabbed != "" {
		header += statusStyle.Render("  [moving]")
	}
	if len(m.filterApplied) > 0 {
		names := make([]string, 0, len(m.filterApplied))
		for _, id := range m.filterApplied {
			if label, ok := m.filter.labelByID(id); ok {
				names = append(names, label.Name)
			}
		}
		header += statusStyle.Render("  filter: " + strings.Join(names, ", "))
	}
	if m.loading {
		header += statusStyle.Render("  loading…")
	}

	sections := []string{header}
	if m.banner != "" {
		sections = append(sections, bannerStyle.Render("✕ "+truncate(m.banner, max(8, m.width-6))+"  (x dismiss)"))
	}
	sections = append(sections, "", m.renderBoard(muted, dim))
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	return m.finishView(strings.Join(sections, "\n"), accent, muted, dim)
}

// finishView appends the help line and composes any active overlay.
func (m Model) finishView(content string, accent, muted, dim color.Color) tea.View {
	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return boardView(fullContent)
}

// boardView wraps rendered content in the alt-screen view settings.
func boardView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderBoard renders the four status columns side by side.
func (m Model) renderBoard(muted, dim color.Color) string {
	statuses := domain.Statuses()
	partitions := domain.PartitionByStatus(m.tasks)

	colWidth := m.columnWidth()
	colHeight := m.columnHeight()
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	grabbedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("236")).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(muted)
	savingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("178"))

	grabbedID, _, grabActive := parseGrabPayload(m.grabbed)

	columnViews := make([]string, 0, len(statuses))
	for colIdx, status := range statuses {
		accent := statusAccent(status)
		colStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(1, 2).
			MarginRight(1).
			Width(colWidth)
		if colIdx == m.selectedColumn {
			colStyle = colStyle.BorderForeground(accent)
			if grabActive {
				colStyle = colStyle.Border(lipgloss.DoubleBorder()).BorderForeground(accent)
			}
		}

		colTasks := partitions[status]
		colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		headerLine := colTitle.Render(fmt.Sprintf("%s %s (%d)", StatusGlyph(status), status.Title(), len(colTasks)))

		taskLines := make([]string, 0, max(1, len(colTasks)*3))
		selectedStart := -1
		selectedEnd := -1
		if len(colTasks) == 0 {
			taskLines = append(taskLines, emptyStyle.Render("(empty)"))
		} else {
			for taskIdx, task := range colTasks {
				selected := colIdx == m.selectedColumn && taskIdx == clamp(m.selectedTask, 0, len(colTasks)-1)
				grabbedCard := grabActive && task.ID == grabbedID
				_, saving := m.savingIDs[task.ID]
				pendingCreate := task.ID == 0

				prefix := "   "
				if selected {
					prefix = "│  "
				}
				title := prefix + truncate(task.Title, max(1, colWidth-10))
				if saving || pendingCreate {
					title += " " + savingStyle.Render("…")
				}
				switch {
				case grabbedCard:
					title = grabbedStyle.Render(title)
				case selected:
					title = selectedStyle.Render(title)
				}

				rowStart := len(taskLines)
				taskLines = append(taskLines, title)
				if meta := m.cardMeta(task, colWidth); meta != "" {
					taskLines = append(taskLines, prefix+metaStyle.Render(meta))
				}
				if taskIdx < len(colTasks)-1 {
					taskLines = append(taskLines, "")
				}
				if selected {
					selectedStart = rowStart
					selectedEnd = len(taskLines) - 1
				}
			}
		}

		innerHeight := max(1, colHeight-4)
		taskWindowHeight := max(1, innerHeight-1)
		scrollTop := 0
		if colIdx == m.selectedColumn && selectedStart >= 0 {
			if selectedEnd >= scrollTop+taskWindowHeight {
				scrollTop = selectedEnd - taskWindowHeight + 1
			}
			if selectedStart < scrollTop {
				scrollTop = selectedStart
			}
		}
		scrollTop = clamp(scrollTop, 0, max(0, len(taskLines)-taskWindowHeight))
		if len(taskLines) > taskWindowHeight {
			taskLines = taskLines[scrollTop : scrollTop+taskWindowHeight]
		}

		lines := append([]string{headerLine}, taskLines...)
		content := fitLines(strings.Join(lines, "\n"), innerHeight)
		columnViews = append(columnViews, colStyle.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// cardMeta renders the secondary card line under the title.
func (m Model) cardMeta(task domain.Task, colWidth int) string {
	parts := []string{}
	if m.taskFields.ShowPriority {
		parts = append(parts, strings.ToLower(string(task.Priority)))
	}
	if m.taskFields.ShowLabels {
		if labels := summarizeLabels(task.Labels, 2); labels != "" {
			parts = append(parts, labels)
		}
	}
	if m.taskFields.ShowAssignees {
		if assignees := summarizeAssignees(task.Assignees); assignees != "" {
			parts = append(parts, assignees)
		}
	}
	if m.taskFields.ShowDescription && task.Description != "" {
		parts = append(parts, truncate(task.Description, 24))
	}
	if len(parts) == 0 {
		return ""
	}
	return truncate(strings.Join(parts, " "), max(1, colWidth-10))
}

// columnWidth splits the terminal width across the four columns.
func (m Model) columnWidth() int {
	if m.width <= 0 {
		return 24
	}
	statuses := len(domain.Statuses())
	return clamp((m.width-statuses)/statuses-2, 18, 48)
}

// columnHeight reserves room for the chrome around the board.
func (m Model) columnHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(8, m.height-7)
}

// renderModeOverlay renders the active modal, if any.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		boxStyle = boxStyle.Width(clamp(maxWidth, 30, 76))
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeCreateTask:
		lines := []string{
			titleStyle.Render("New Task • " + m.currentStatus().Title()),
			m.createInput.View(),
			hintStyle.Render("enter create • esc cancel"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeEditTitle:
		lines := []string{
			titleStyle.Render("Edit Title"),
			m.titleInput.View(),
			hintStyle.Render("enter save • esc cancel • blank keeps the old title"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeEditDescription:
		lines := []string{
			titleStyle.Render("Edit Description"),
			m.descInput.View(),
			hintStyle.Render("ctrl+s save • esc cancel"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeFilter:
		lines := []string{
			titleStyle.Render("Filter by Label"),
			m.filter.view(accent, muted),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeTaskLabels:
		lines := []string{
			titleStyle.Render("Edit Labels"),
			m.labelPicker.view(accent, muted),
			hintStyle.Render("esc saves the new set"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeProjectPicker:
		lines := []string{titleStyle.Render("Projects")}
		if len(m.projects) == 0 {
			lines = append(lines, hintStyle.Render("(none)"))
		}
		pick := clamp(m.projectPickerIndex, 0, max(0, len(m.projects)-1))
		for idx, project := range m.projects {
			row := "  " + truncate(project.Name, 40)
			if idx == pick {
				row = titleStyle.Render("│ " + truncate(project.Name, 40))
			}
			lines = append(lines, row)
		}
		lines = append(lines, hintStyle.Render("j/k select • enter switch • esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeNewProject:
		lines := []string{
			titleStyle.Render("New Project"),
			m.projectNameInput.View(),
			m.projectDescInput.View(),
			hintStyle.Render("tab next field • enter create • esc cancel"),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeTaskDetail:
		return m.renderTaskDetail(boxStyle, titleStyle, hintStyle)

	default:
		return ""
	}
}

// renderTaskDetail renders the hydrated task record.
func (m Model) renderTaskDetail(boxStyle, titleStyle, hintStyle lipgloss.Style) string {
	task := m.detailTask
	lines := []string{
		titleStyle.Render(fmt.Sprintf("#%d %s", task.ID, truncate(task.Title, 56))),
		hintStyle.Render(fmt.Sprintf("%s %s • %s", StatusGlyph(task.Status), task.Status.Title(), strings.ToLower(string(task.Priority)))),
	}
	if labels := summarizeLabels(task.Labels, 5); labels != "" {
		lines = append(lines, hintStyle.Render("labels: "+labels))
	}
	if len(task.Assignees) > 0 {
		names := make([]string, 0, len(task.Assignees))
		for _, user := range task.Assignees {
			names = append(names, user.Name)
		}
		lines = append(lines, hintStyle.Render("assignees: "+strings.Join(names, ", ")))
	}
	if task.Parent != nil {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("parent: %s #%d %s", StatusGlyph(task.Parent.Status), task.Parent.ID, truncate(task.Parent.Title, 40))))
	}
	if task.Description != "" {
		rendered := m.markdown.render(task.Description, clamp(m.width-16, 24, 72))
		lines = append(lines, "", rendered)
	}
	if len(task.Subtasks) > 0 {
		lines = append(lines, "", hintStyle.Render(fmt.Sprintf("subtasks (%d)", len(task.Subtasks))))
		for _, subtask := range task.Subtasks {
			lines = append(lines, fmt.Sprintf("  %s #%d %s", StatusGlyph(subtask.Status), subtask.ID, truncate(subtask.Title, 44)))
		}
	}
	if len(task.Comments) > 0 {
		lines = append(lines, "", hintStyle.Render(fmt.Sprintf("comments (%d)", len(task.Comments))))
		for _, comment := range task.Comments {
			author := comment.Author.Name
			if author == "" {
				author = fmt.Sprintf("user %d", comment.AuthorID)
			}
			lines = append(lines, hintStyle.Render("  "+author+":"), "  "+truncate(comment.Content, 60))
		}
	}
	lines = append(lines, "", hintStyle.Render("j/k scroll • e title • E description • esc close"))

	body := strings.Join(lines, "\n")
	maxBody := max(6, m.height-8)
	bodyLines := strings.Split(body, "\n")
	top := clamp(m.detailScroll, 0, max(0, len(bodyLines)-maxBody))
	if len(bodyLines) > maxBody {
		bodyLines = bodyLines[top : top+maxBody]
	}
	return boxStyle.Render(strings.Join(bodyLines, "\n"))
}

// renderHelpOverlay renders the full key listing.
func (m Model) renderHelpOverlay(accent, muted color.Color, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		boxStyle = boxStyle.Width(clamp(maxWidth, 40, 90))
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	helpBubble := m.help
	helpBubble.ShowAll = true
	helpBubble.SetWidth(clamp(maxWidth, 40, 90) - 4)
	lines := []string{
		titleStyle.Render("Keys"),
		helpBubble.View(m.keys),
		lipgloss.NewStyle().Foreground(muted).Render("? or esc close"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
