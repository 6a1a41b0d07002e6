package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit            key.Binding
	reload          key.Binding
	toggleHelp      key.Binding
	moveLeft        key.Binding
	moveRight       key.Binding
	moveUp          key.Binding
	moveDown        key.Binding
	addTask         key.Binding
	taskInfo        key.Binding
	editTitle       key.Binding
	editDescription key.Binding
	editLabels      key.Binding
	grabTask        key.Binding
	filterLabels    key.Binding
	projects        key.Binding
	newProject      key.Binding
	yankTask        key.Binding
	dismissBanner   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		taskInfo:        key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task details")),
		editTitle:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		editDescription: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit description")),
		editLabels:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "edit labels")),
		grabTask:        key.NewBinding(key.WithKeys("m", "space"), key.WithHelp("m/space", "grab task")),
		filterLabels:    key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "filter labels")),
		projects:        key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("p", "project picker")),
		newProject:      key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new project")),
		yankTask:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task ref")),
		dismissBanner:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.taskInfo, k.editTitle, k.grabTask, k.filterLabels, k.projects, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.taskInfo, k.editTitle, k.editDescription, k.editLabels, k.yankTask, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.grabTask},
		{k.filterLabels, k.projects, k.newProject, k.dismissBanner},
	}
}
