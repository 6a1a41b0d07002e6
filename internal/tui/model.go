package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

// Service represents service data used by this package.
type Service interface {
	ListProjects(context.Context) ([]domain.Project, error)
	ListLabels(context.Context) ([]domain.Label, error)
	ListTasks(context.Context, app.ListTasksInput) ([]domain.Task, error)
	GetTask(context.Context, int64) (domain.Task, error)
	CreateTask(context.Context, app.CreateTaskInput) (domain.Task, error)
	UpdateTaskDetails(context.Context, app.UpdateTaskInput) (domain.Task, error)
	UpdateTaskStatus(context.Context, int64, domain.Status) (domain.Task, error)
	ReplaceTaskLabels(context.Context, int64, []int64) error
	CreateProject(context.Context, string, string, int64) (domain.Project, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeCreateTask
	modeEditTitle
	modeEditDescription
	modeFilter
	modeTaskLabels
	modeProjectPicker
	modeNewProject
	modeTaskDetail
)

// defaultUserID is the seeded demo account that owns projects created from
// the terminal.
const defaultUserID = 1

// Model represents model data used by this package.
type Model struct {
	svc        Service
	keys       keyMap
	help       help.Model
	taskFields TaskFieldConfig
	userID     int64
	markdown   markdownRenderer

	ready   bool
	loading bool
	width   int
	height  int

	err    error
	banner string
	status string

	projects        []domain.Project
	selectedProject int
	tasks           []domain.Task
	labels          []domain.Label

	selectedColumn int
	selectedTask   int

	mode inputMode

	// grabbed holds the "id|status" payload of the card being moved.
	grabbed   string
	savingIDs map[int64]struct{}

	titleInput    textinput.Model
	descInput     textinput.Model
	createInput   textinput.Model
	editingTaskID int64

	filter        multiSelect
	filterApplied []int64

	labelPicker      multiSelect
	labelEditTaskID  int64
	labelEditInitial []int64

	projectNameInput   textinput.Model
	projectDescInput   textinput.Model
	projectFormFocus   int
	projectPickerIndex int

	detailTaskID int64
	detailTask   domain.Task
	detailScroll int

	pendingProjectID   int64
	pendingFocusTaskID int64
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	projects        []domain.Project
	selectedProject int
	tasks           []domain.Task
	labels          []domain.Label
	err             error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	taskID      int64
	focusTaskID int64
	projectID   int64
}

// detailMsg carries one fully hydrated task for the detail view.
type detailMsg struct {
	task domain.Task
	err  error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	titleInput := textinput.New()
	titleInput.Prompt = "title: "
	titleInput.CharLimit = 200
	descInput := textinput.New()
	descInput.Prompt = "description: "
	descInput.Placeholder = "markdown allowed"
	descInput.CharLimit = 2000
	createInput := textinput.New()
	createInput.Prompt = "+ "
	createInput.Placeholder = "task title"
	createInput.CharLimit = 200
	projectNameInput := textinput.New()
	projectNameInput.Prompt = "name: "
	projectNameInput.Placeholder = "project name"
	projectNameInput.CharLimit = 120
	projectDescInput := textinput.New()
	projectDescInput.Prompt = "description: "
	projectDescInput.CharLimit = 500

	m := Model{
		svc:              svc,
		keys:             newKeyMap(),
		help:             h,
		taskFields:       DefaultTaskFieldConfig(),
		userID:           defaultUserID,
		loading:          true,
		status:           "loading...",
		savingIDs:        map[int64]struct{}{},
		titleInput:       titleInput,
		descInput:        descInput,
		createInput:      createInput,
		filter:           newMultiSelect(),
		labelPicker:      newMultiSelect(),
		projectNameInput: projectNameInput,
		projectDescInput: projectDescInput,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.projects = msg.projects
		m.selectedProject = msg.selectedProject
		m.tasks = msg.tasks
		m.labels = msg.labels
		m.filter.SetOptions(msg.labels)
		if len(m.projects) == 0 {
			m.selectedProject = 0
			m.selectedColumn = 0
			m.selectedTask = 0
			m.tasks = nil
			if m.mode == modeNone {
				m.status = "create your first project"
				return m, m.startProjectForm()
			}
			return m, nil
		}
		if m.pendingProjectID != 0 {
			for idx, project := range m.projects {
				if project.ID == m.pendingProjectID {
					m.selectedProject = idx
					break
				}
			}
			m.pendingProjectID = 0
		}
		m.clampSelections()
		if m.pendingFocusTaskID != 0 {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = 0
		}
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.taskID != 0 {
			delete(m.savingIDs, msg.taskID)
		}
		if msg.err != nil {
			m.banner = msg.err.Error()
			m.status = "action failed"
			return m, nil
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != 0 {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.projectID != 0 {
			m.pendingProjectID = msg.projectID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case detailMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			if m.mode == modeTaskDetail {
				m.mode = modeNone
				m.detailTaskID = 0
			}
			return m, nil
		}
		if m.mode == modeTaskDetail && msg.task.ID == m.detailTaskID {
			m.detailTask = msg.task
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		if m.grabbed != "" {
			return m.handleGrabModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	ctx := context.Background()
	projects, err := m.svc.ListProjects(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	labels, err := m.svc.ListLabels(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	if len(projects) == 0 {
		return loadedMsg{projects: projects, labels: labels}
	}

	projectIdx := clamp(m.selectedProject, 0, len(projects)-1)
	if m.pendingProjectID != 0 {
		for idx, project := range projects {
			if project.ID == m.pendingProjectID {
				projectIdx = idx
				break
			}
		}
	}
	tasks, err := m.svc.ListTasks(ctx, app.ListTasksInput{
		ProjectID: projects[projectIdx].ID,
		LabelIDs:  append([]int64(nil), m.filterApplied...),
	})
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{
		projects:        projects,
		selectedProject: projectIdx,
		tasks:           tasks,
		labels:          labels,
	}
}

// loadDetail fetches the hydrated record behind the detail view.
func (m Model) loadDetail(taskID int64) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.GetTask(context.Background(), taskID)
		if err != nil {
			return detailMsg{err: err}
		}
		return detailMsg{task: task}
	}
}

// handleNormalModeKey handles board navigation and mode entry.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil

	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
			return m, nil
		}
		if m.banner != "" {
			m.banner = ""
			m.status = "ready"
			return m, nil
		}
		if len(m.filterApplied) > 0 {
			m.filterApplied = nil
			m.filter.SetOptions(m.labels)
			m.status = "filter cleared"
			return m, m.loadData
		}
		return m, nil

	case key.Matches(msg, m.keys.dismissBanner):
		if m.banner != "" {
			m.banner = ""
			m.status = "ready"
		}
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.loading = true
		m.status = "reloading..."
		return m, m.loadData

	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(domain.Statuses())-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		tasks := m.currentColumnTasks()
		if len(tasks) > 0 && m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil

	case key.Matches(msg, m.keys.addTask):
		if m.loading {
			m.status = "board is still loading"
			return m, nil
		}
		if _, ok := m.currentProject(); !ok {
			m.status = "no active project"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeCreateTask
		m.createInput.SetValue("")
		m.status = "new task in " + m.currentStatus().Title()
		return m, m.createInput.Focus()

	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeTaskDetail
		m.detailTaskID = task.ID
		m.detailTask = task
		m.detailScroll = 0
		m.status = "task details"
		return m, m.loadDetail(task.ID)

	case key.Matches(msg, m.keys.editTitle):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeEditTitle
		m.editingTaskID = task.ID
		m.titleInput.SetValue(task.Title)
		m.titleInput.CursorEnd()
		m.status = "edit title"
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.editDescription):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeEditDescription
		m.editingTaskID = task.ID
		m.descInput.SetValue(task.Description)
		m.descInput.CursorEnd()
		m.status = "edit description"
		return m, m.descInput.Focus()

	case key.Matches(msg, m.keys.editLabels):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if len(m.labels) == 0 {
			m.status = "no labels defined"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeTaskLabels
		m.labelEditTaskID = task.ID
		m.labelPicker.SetOptions(m.labels)
		ids := make([]int64, 0, len(task.Labels))
		for _, label := range task.Labels {
			ids = append(ids, label.ID)
		}
		m.labelPicker.selected = ids
		m.labelEditInitial = append([]int64(nil), ids...)
		m.status = "edit labels"
		return m, m.labelPicker.Focus()

	case key.Matches(msg, m.keys.grabTask):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.grabbed = grabPayload(task)
		m.status = fmt.Sprintf("moving %q • h/l pick column • enter drop • esc cancel", truncate(task.Title, 28))
		return m, nil

	case key.Matches(msg, m.keys.filterLabels):
		if len(m.labels) == 0 {
			m.status = "no labels defined"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeFilter
		m.status = "filter by label"
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.projects):
		m.help.ShowAll = false
		m.mode = modeProjectPicker
		m.projectPickerIndex = m.selectedProject
		m.status = "switch project"
		return m, nil

	case key.Matches(msg, m.keys.newProject):
		m.help.ShowAll = false
		return m, m.startProjectForm()

	case key.Matches(msg, m.keys.yankTask):
		task, ok := m.selectedTaskInColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := clipboard.WriteAll(fmt.Sprintf("#%d %s", task.ID, task.Title)); err != nil {
			m.banner = "clipboard: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied #%d", task.ID)
		return m, nil

	default:
		return m, nil
	}
}

// handleGrabModeKey routes keys while a card is grabbed. Only column
// selection, drop and cancel are live.
func (m Model) handleGrabModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case msg.String() == "esc":
		m.grabbed = ""
		m.status = "move cancelled"
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
		}
		m.status = "drop target: " + m.currentStatus().Title()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(domain.Statuses())-1 {
			m.selectedColumn++
		}
		m.status = "drop target: " + m.currentStatus().Title()
		return m, nil
	case msg.String() == "enter":
		payload := m.grabbed
		m.grabbed = ""
		taskID, from, ok := parseGrabPayload(payload)
		if !ok {
			m.status = "ready"
			return m, nil
		}
		target := m.currentStatus()
		if target == from {
			m.status = "card kept its column"
			m.focusTaskByID(taskID)
			return m, nil
		}
		return m.moveTask(taskID, target)
	default:
		return m, nil
	}
}

// moveTask commits a column change optimistically and persists it in the
// background. A failed persist surfaces on the banner without snapping the
// card back.
func (m Model) moveTask(taskID int64, target domain.Status) (tea.Model, tea.Cmd) {
	for idx := range m.tasks {
		if m.tasks[idx].ID == taskID {
			m.tasks[idx].Status = target
			break
		}
	}
	m.savingIDs[taskID] = struct{}{}
	m.focusTaskByID(taskID)
	m.status = "moving task..."
	svc := m.svc
	return m, func() tea.Msg {
		if _, err := svc.UpdateTaskStatus(context.Background(), taskID, target); err != nil {
			return actionMsg{err: err, taskID: taskID}
		}
		return actionMsg{status: "task moved", reload: true, taskID: taskID, focusTaskID: taskID}
	}
}

// handleInputModeKey routes keys while an overlay owns the keyboard.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeCreateTask:
		return m.handleCreateTaskKey(msg)
	case modeEditTitle:
		return m.handleEditTitleKey(msg)
	case modeEditDescription:
		return m.handleEditDescriptionKey(msg)
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeTaskLabels:
		return m.handleTaskLabelsKey(msg)
	case modeProjectPicker:
		return m.handleProjectPickerKey(msg)
	case modeNewProject:
		return m.handleNewProjectKey(msg)
	case modeTaskDetail:
		return m.handleTaskDetailKey(msg)
	default:
		m.mode = modeNone
		return m, nil
	}
}

func (m Model) handleCreateTaskKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.createInput.Blur()
		m.status = "creation cancelled"
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.createInput.Value())
		m.mode = modeNone
		m.createInput.Blur()
		if title == "" {
			m.status = "creation cancelled"
			return m, nil
		}
		project, ok := m.currentProject()
		if !ok {
			m.status = "no active project"
			return m, nil
		}
		status := m.currentStatus()
		pending := domain.Task{
			ProjectID: project.ID,
			Title:     title,
			Status:    status,
			Priority:  domain.PriorityMedium,
		}
		m.tasks = append(m.tasks, pending)
		m.selectedTask = len(m.columnTasks(status)) - 1
		m.status = "creating task..."
		svc := m.svc
		return m, func() tea.Msg {
			task, err := svc.CreateTask(context.Background(), app.CreateTaskInput{
				ProjectID: project.ID,
				Title:     title,
				Status:    status,
			})
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "task created", reload: true, focusTaskID: task.ID}
		}
	default:
		var cmd tea.Cmd
		m.createInput, cmd = m.createInput.Update(msg)
		return m, cmd
	}
}

func (m Model) handleEditTitleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.titleInput.Blur()
		m.editingTaskID = 0
		m.status = "edit cancelled"
		return m, nil
	case "enter":
		taskID := m.editingTaskID
		title := strings.TrimSpace(m.titleInput.Value())
		m.mode = modeNone
		m.titleInput.Blur()
		m.editingTaskID = 0
		task, ok := m.taskByID(taskID)
		if !ok {
			m.status = "task is gone"
			return m, nil
		}
		if title == "" || title == task.Title {
			m.status = "title unchanged"
			return m, nil
		}
		return m.commitDetails(taskID, title, task.Description, "title saved")
	default:
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
}

func (m Model) handleEditDescriptionKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.descInput.Blur()
		m.editingTaskID = 0
		m.status = "edit cancelled"
		return m, nil
	case "ctrl+s":
		taskID := m.editingTaskID
		description := strings.TrimSpace(m.descInput.Value())
		m.mode = modeNone
		m.descInput.Blur()
		m.editingTaskID = 0
		task, ok := m.taskByID(taskID)
		if !ok {
			m.status = "task is gone"
			return m, nil
		}
		if description == task.Description {
			m.status = "description unchanged"
			return m, nil
		}
		return m.commitDetails(taskID, task.Title, description, "description saved")
	default:
		var cmd tea.Cmd
		m.descInput, cmd = m.descInput.Update(msg)
		return m, cmd
	}
}

// commitDetails applies a title/description edit locally and persists it in
// the background.
func (m Model) commitDetails(taskID int64, title, description, doneStatus string) (tea.Model, tea.Cmd) {
	for idx := range m.tasks {
		if m.tasks[idx].ID == taskID {
			m.tasks[idx].Title = title
			m.tasks[idx].Description = description
			break
		}
	}
	m.savingIDs[taskID] = struct{}{}
	m.status = "saving..."
	svc := m.svc
	return m, func() tea.Msg {
		if _, err := svc.UpdateTaskDetails(context.Background(), app.UpdateTaskInput{
			TaskID:      taskID,
			Title:       title,
			Description: description,
		}); err != nil {
			return actionMsg{err: err, taskID: taskID}
		}
		return actionMsg{status: doneStatus, reload: true, taskID: taskID, focusTaskID: taskID}
	}
}

func (m Model) handleFilterKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeNone
		m.filter.Blur()
		if len(m.filterApplied) > 0 {
			m.status = fmt.Sprintf("%d label filter(s) active", len(m.filterApplied))
		} else {
			m.status = "ready"
		}
		return m, nil
	}
	var changed bool
	var cmd tea.Cmd
	m.filter, changed, cmd = m.filter.Update(msg)
	if changed {
		m.filterApplied = m.filter.Selected()
		m.loading = true
		return m, tea.Batch(cmd, m.loadData)
	}
	return m, cmd
}

// handleTaskLabelsKey edits the label set of one card. The swap is committed
// as a single replace when the picker closes.
func (m Model) handleTaskLabelsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		taskID := m.labelEditTaskID
		selected := m.labelPicker.Selected()
		initial := m.labelEditInitial
		m.mode = modeNone
		m.labelPicker.Blur()
		m.labelEditTaskID = 0
		m.labelEditInitial = nil
		if sameIDSet(selected, initial) {
			m.status = "labels unchanged"
			return m, nil
		}
		for idx := range m.tasks {
			if m.tasks[idx].ID != taskID {
				continue
			}
			labels := make([]domain.Label, 0, len(selected))
			for _, id := range selected {
				if label, ok := m.labelPicker.labelByID(id); ok {
					labels = append(labels, label)
				}
			}
			m.tasks[idx].Labels = labels
			break
		}
		m.savingIDs[taskID] = struct{}{}
		m.status = "saving labels..."
		svc := m.svc
		return m, func() tea.Msg {
			if err := svc.ReplaceTaskLabels(context.Background(), taskID, selected); err != nil {
				return actionMsg{err: err, taskID: taskID}
			}
			return actionMsg{status: "labels saved", reload: true, taskID: taskID, focusTaskID: taskID}
		}
	}
	var cmd tea.Cmd
	m.labelPicker, _, cmd = m.labelPicker.Update(msg)
	return m, cmd
}

// sameIDSet compares two id collections ignoring order.
func sameIDSet(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

func (m Model) handleProjectPickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.status = "ready"
		return m, nil
	case "j", "down":
		if m.projectPickerIndex < len(m.projects)-1 {
			m.projectPickerIndex++
		}
		return m, nil
	case "k", "up":
		if m.projectPickerIndex > 0 {
			m.projectPickerIndex--
		}
		return m, nil
	case "enter":
		m.mode = modeNone
		if len(m.projects) == 0 {
			return m, nil
		}
		m.selectedProject = clamp(m.projectPickerIndex, 0, len(m.projects)-1)
		m.selectedColumn = 0
		m.selectedTask = 0
		m.loading = true
		m.status = "switching project..."
		return m, m.loadData
	default:
		return m, nil
	}
}

func (m Model) handleNewProjectKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.projectNameInput.Blur()
		m.projectDescInput.Blur()
		m.status = "cancelled"
		return m, nil
	case "tab", "down":
		return m, m.focusProjectField(m.projectFormFocus + 1)
	case "shift+tab", "up":
		return m, m.focusProjectField(m.projectFormFocus - 1)
	case "enter":
		name := strings.TrimSpace(m.projectNameInput.Value())
		if name == "" {
			m.status = "project name required"
			return m, m.focusProjectField(0)
		}
		description := strings.TrimSpace(m.projectDescInput.Value())
		m.mode = modeNone
		m.projectNameInput.Blur()
		m.projectDescInput.Blur()
		m.status = "creating project..."
		svc := m.svc
		userID := m.userID
		return m, func() tea.Msg {
			project, err := svc.CreateProject(context.Background(), name, description, userID)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: "project created", reload: true, projectID: project.ID}
		}
	default:
		var cmd tea.Cmd
		if m.projectFormFocus == 0 {
			m.projectNameInput, cmd = m.projectNameInput.Update(msg)
		} else {
			m.projectDescInput, cmd = m.projectDescInput.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) handleTaskDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "i":
		m.mode = modeNone
		m.detailTaskID = 0
		m.detailScroll = 0
		m.status = "ready"
		return m, nil
	case "j", "down":
		m.detailScroll++
		return m, nil
	case "k", "up":
		if m.detailScroll > 0 {
			m.detailScroll--
		}
		return m, nil
	case "e":
		task := m.detailTask
		m.mode = modeEditTitle
		m.editingTaskID = task.ID
		m.titleInput.SetValue(task.Title)
		m.titleInput.CursorEnd()
		m.status = "edit title"
		return m, m.titleInput.Focus()
	case "E":
		task := m.detailTask
		m.mode = modeEditDescription
		m.editingTaskID = task.ID
		m.descInput.SetValue(task.Description)
		m.descInput.CursorEnd()
		m.status = "edit description"
		return m, m.descInput.Focus()
	default:
		return m, nil
	}
}

// handleMouseWheel scrolls the task selection in the hovered-free board.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.grabbed != "" {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case tea.MouseWheelDown:
		tasks := m.currentColumnTasks()
		if len(tasks) > 0 && m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
	}
	return m, nil
}

// startProjectForm starts project form.
func (m *Model) startProjectForm() tea.Cmd {
	m.mode = modeNewProject
	m.projectNameInput.SetValue("")
	m.projectDescInput.SetValue("")
	m.projectFormFocus = 0
	m.projectDescInput.Blur()
	m.status = "new project"
	return m.projectNameInput.Focus()
}

// focusProjectField moves focus between the two project form inputs.
func (m *Model) focusProjectField(idx int) tea.Cmd {
	m.projectFormFocus = clamp(idx, 0, 1)
	if m.projectFormFocus == 0 {
		m.projectDescInput.Blur()
		return m.projectNameInput.Focus()
	}
	m.projectNameInput.Blur()
	return m.projectDescInput.Focus()
}

// grabPayload serializes the grabbed card as "id|status".
func grabPayload(task domain.Task) string {
	return fmt.Sprintf("%d|%s", task.ID, task.Status)
}

// parseGrabPayload decodes a grab payload. Malformed payloads report false so
// a drop can no-op instead of moving the wrong card.
func parseGrabPayload(payload string) (int64, domain.Status, bool) {
	idRaw, statusRaw, found := strings.Cut(payload, "|")
	if !found {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	status, err := domain.ParseStatus(statusRaw)
	if err != nil {
		return 0, "", false
	}
	return id, status, true
}

// currentProject returns the active project.
func (m Model) currentProject() (domain.Project, bool) {
	if len(m.projects) == 0 {
		return domain.Project{}, false
	}
	return m.projects[clamp(m.selectedProject, 0, len(m.projects)-1)], true
}

// currentStatus returns the status of the selected column.
func (m Model) currentStatus() domain.Status {
	statuses := domain.Statuses()
	return statuses[clamp(m.selectedColumn, 0, len(statuses)-1)]
}

// columnTasks returns the tasks in one board column, preserving list order.
func (m Model) columnTasks(status domain.Status) []domain.Task {
	out := []domain.Task{}
	for _, task := range m.tasks {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out
}

// currentColumnTasks returns the tasks in the selected column.
func (m Model) currentColumnTasks() []domain.Task {
	return m.columnTasks(m.currentStatus())
}

// selectedTaskInColumn returns the highlighted task.
func (m Model) selectedTaskInColumn() (domain.Task, bool) {
	tasks := m.currentColumnTasks()
	if len(tasks) == 0 {
		return domain.Task{}, false
	}
	return tasks[clamp(m.selectedTask, 0, len(tasks)-1)], true
}

// taskByID resolves a task id against the loaded board.
func (m Model) taskByID(taskID int64) (domain.Task, bool) {
	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return domain.Task{}, false
}

// focusTaskByID moves the selection onto the given task.
func (m *Model) focusTaskByID(taskID int64) {
	statuses := domain.Statuses()
	for colIdx, status := range statuses {
		for taskIdx, task := range m.columnTasks(status) {
			if task.ID == taskID {
				m.selectedColumn = colIdx
				m.selectedTask = taskIdx
				return
			}
		}
	}
}

// clampSelections keeps the cursor inside the loaded board.
func (m *Model) clampSelections() {
	m.selectedColumn = clamp(m.selectedColumn, 0, len(domain.Statuses())-1)
	tasks := m.currentColumnTasks()
	m.selectedTask = clamp(m.selectedTask, 0, max(0, len(tasks)-1))
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// max returns the larger of the provided values.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}

// summarizeLabels summarizes labels.
func summarizeLabels(labels []domain.Label, maxLabels int) string {
	if len(labels) == 0 {
		return ""
	}
	if maxLabels <= 0 {
		maxLabels = 1
	}
	visible := labels
	extra := 0
	if len(labels) > maxLabels {
		visible = labels[:maxLabels]
		extra = len(labels) - maxLabels
	}
	names := make([]string, 0, len(visible))
	for _, label := range visible {
		names = append(names, "#"+label.Name)
	}
	joined := strings.Join(names, ",")
	if extra > 0 {
		joined += fmt.Sprintf("+%d", extra)
	}
	return joined
}

// summarizeAssignees renders assignee initials.
func summarizeAssignees(users []domain.User) string {
	if len(users) == 0 {
		return ""
	}
	initials := make([]string, 0, len(users))
	for _, user := range users {
		initials = append(initials, user.Initial())
	}
	return "@" + strings.Join(initials, "@")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}
