package app

import (
	"context"
	"fmt"

	"github.com/mlundekvam/tavle/internal/domain"
)

// seedLabels mirrors the label palette the app ships with.
var seedLabels = []struct {
	name  string
	color string
}{
	{"Bug", "#ef4444"},
	{"Feature", "#3b82f6"},
	{"Enhancement", "#10b981"},
	{"Documentation", "#8b5cf6"},
	{"Urgent", "#f59e0b"},
}

// Seed populates an empty database with demo users, labels, projects and
// tasks. It refuses to run against a database that already has users.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("database already has %d users; refusing to seed", len(existing))
	}

	users := make([]domain.User, 0, 4)
	for _, u := range []struct{ name, email, password string }{
		{"John Doe", "john.doe@example.com", "password123"},
		{"Jane Smith", "jane.smith@example.com", "password456"},
		{"Bob Wilson", "bob.wilson@example.com", "password789"},
		{"Alice Johnson", "alice.johnson@example.com", "password101"},
	} {
		user, err := s.RegisterUser(ctx, u.name, u.email, u.password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		users = append(users, user)
	}

	labels := make([]domain.Label, 0, len(seedLabels))
	for _, l := range seedLabels {
		label, err := domain.NewLabel(l.name, l.color)
		if err != nil {
			return fmt.Errorf("seed label %s: %w", l.name, err)
		}
		created, err := s.repo.CreateLabel(ctx, label)
		if err != nil {
			return fmt.Errorf("seed label %s: %w", l.name, err)
		}
		labels = append(labels, created)
	}

	project, err := s.CreateProject(ctx,
		"Task Management System",
		"A comprehensive project management application with task tracking, team collaboration, and reporting features.",
		users[0].ID)
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	for i, role := range []domain.MemberRole{domain.RoleAdmin, domain.RoleMember, domain.RoleMember} {
		if err := s.repo.AddProjectMember(ctx, project.ID, users[i+1].ID, role); err != nil {
			return fmt.Errorf("seed member: %w", err)
		}
	}

	second, err := s.CreateProject(ctx,
		"E-commerce Platform",
		"Modern e-commerce solution with payment integration, inventory management, and customer portal.",
		users[1].ID)
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	if err := s.repo.AddProjectMember(ctx, second.ID, users[0].ID, domain.RoleMember); err != nil {
		return fmt.Errorf("seed member: %w", err)
	}

	for _, t := range []struct {
		title    string
		desc     string
		status   domain.Status
		labelIdx int
		assignee int
	}{
		{"Fix login redirect loop", "Users bounce between /login and / when the cookie expires.", domain.StatusTodo, 0, 2},
		{"Design board filters", "Label filter chips on the task board.", domain.StatusInProgress, 1, 1},
		{"Document seed workflow", "How to reset and reseed a local database.", domain.StatusReview, 3, 3},
		{"Ship keyboard shortcuts", "Board navigation without the mouse.", domain.StatusDone, 2, 0},
	} {
		task, err := s.CreateTask(ctx, CreateTaskInput{
			ProjectID:   project.ID,
			Title:       t.title,
			Description: t.desc,
			Status:      t.status,
		})
		if err != nil {
			return fmt.Errorf("seed task %q: %w", t.title, err)
		}
		if err := s.ReplaceTaskLabels(ctx, task.ID, []int64{labels[t.labelIdx].ID}); err != nil {
			return fmt.Errorf("seed task labels: %w", err)
		}
		if err := s.AssignTask(ctx, task.ID, users[t.assignee].ID); err != nil {
			return fmt.Errorf("seed task assignee: %w", err)
		}
	}

	return nil
}
