package tui

// TaskFieldConfig controls which secondary fields render on board cards.
type TaskFieldConfig struct {
	ShowPriority    bool
	ShowLabels      bool
	ShowAssignees   bool
	ShowDescription bool
}

type Option func(*Model)

func DefaultTaskFieldConfig() TaskFieldConfig {
	return TaskFieldConfig{
		ShowPriority:    true,
		ShowLabels:      true,
		ShowAssignees:   true,
		ShowDescription: false,
	}
}

func WithTaskFieldConfig(cfg TaskFieldConfig) Option {
	return func(m *Model) {
		m.taskFields = cfg
	}
}

// WithUserID sets the acting user recorded as creator of new projects.
func WithUserID(userID int64) Option {
	return func(m *Model) {
		if userID > 0 {
			m.userID = userID
		}
	}
}
