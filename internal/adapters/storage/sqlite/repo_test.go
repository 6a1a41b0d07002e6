package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "tavle.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func seedUser(t *testing.T, repo *Repository, name, email string) domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "hash")
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	created, err := repo.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return created
}

func seedBoard(t *testing.T, repo *Repository) (domain.User, domain.Project) {
	t.Helper()
	user := seedUser(t, repo, "Ada", "ada@example.com")
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	p, err := domain.NewProject("Board", "desc", user.ID, now)
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}
	project, err := repo.CreateProject(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	return user, project
}

func TestRepository_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	user, project := seedBoard(t, repo)

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(domain.TaskInput{
		ProjectID:   project.ID,
		Title:       "Fix login bug",
		Description: "Session cookie expires early",
		Priority:    domain.PriorityHigh,
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	created, err := repo.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("CreateTask() should assign an ID")
	}

	label, err := repo.CreateLabel(ctx, domain.Label{Name: "Bug", Color: "#ef4444"})
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}
	if err := repo.ReplaceTaskLabels(ctx, created.ID, []int64{label.ID}); err != nil {
		t.Fatalf("ReplaceTaskLabels() error = %v", err)
	}
	if err := repo.AssignTask(ctx, created.ID, user.ID); err != nil {
		t.Fatalf("AssignTask() error = %v", err)
	}
	comment, err := domain.NewComment(created.ID, user.ID, "On it", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("NewComment() error = %v", err)
	}
	if _, err := repo.CreateComment(ctx, comment); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	loaded, err := repo.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if loaded.Title != "Fix login bug" || loaded.Status != domain.StatusTodo || loaded.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected task %#v", loaded)
	}
	if len(loaded.Labels) != 1 || loaded.Labels[0].Name != "Bug" {
		t.Fatalf("unexpected labels %#v", loaded.Labels)
	}
	if len(loaded.Assignees) != 1 || loaded.Assignees[0].Email != "ada@example.com" {
		t.Fatalf("unexpected assignees %#v", loaded.Assignees)
	}
	if len(loaded.Comments) != 1 || loaded.Comments[0].Author.Name != "Ada" {
		t.Fatalf("unexpected comments %#v", loaded.Comments)
	}

	if err := loaded.SetStatus(domain.StatusInProgress, now.Add(time.Hour)); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if err := repo.UpdateTask(ctx, loaded); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	moved, err := repo.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask() after move error = %v", err)
	}
	if moved.Status != domain.StatusInProgress {
		t.Fatalf("status = %q, want IN_PROGRESS", moved.Status)
	}
}

func TestRepository_SubtaskAndParentStubs(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	_, project := seedBoard(t, repo)

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	parent, _ := domain.NewTask(domain.TaskInput{ProjectID: project.ID, Title: "Epic"}, now)
	parentRec, err := repo.CreateTask(ctx, parent)
	if err != nil {
		t.Fatalf("CreateTask(parent) error = %v", err)
	}
	sub, _ := domain.NewTask(domain.TaskInput{ProjectID: project.ID, ParentID: &parentRec.ID, Title: "Step one"}, now.Add(time.Second))
	subRec, err := repo.CreateTask(ctx, sub)
	if err != nil {
		t.Fatalf("CreateTask(sub) error = %v", err)
	}

	loadedParent, err := repo.GetTask(ctx, parentRec.ID)
	if err != nil {
		t.Fatalf("GetTask(parent) error = %v", err)
	}
	if len(loadedParent.Subtasks) != 1 || loadedParent.Subtasks[0].Title != "Step one" {
		t.Fatalf("unexpected subtasks %#v", loadedParent.Subtasks)
	}
	if loadedParent.Parent != nil {
		t.Fatal("root task should have no parent stub")
	}

	loadedSub, err := repo.GetTask(ctx, subRec.ID)
	if err != nil {
		t.Fatalf("GetTask(sub) error = %v", err)
	}
	if loadedSub.Parent == nil || loadedSub.Parent.ID != parentRec.ID || loadedSub.Parent.Title != "Epic" {
		t.Fatalf("unexpected parent stub %#v", loadedSub.Parent)
	}
}

func TestRepository_ListTasksLabelFilter(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	_, project := seedBoard(t, repo)

	bug, err := repo.CreateLabel(ctx, domain.Label{Name: "Bug", Color: "#ef4444"})
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}
	feature, err := repo.CreateLabel(ctx, domain.Label{Name: "Feature", Color: "#3b82f6"})
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	mk := func(title string, offset time.Duration, labelIDs ...int64) domain.Task {
		task, _ := domain.NewTask(domain.TaskInput{ProjectID: project.ID, Title: title}, base.Add(offset))
		created, err := repo.CreateTask(ctx, task)
		if err != nil {
			t.Fatalf("CreateTask(%s) error = %v", title, err)
		}
		if len(labelIDs) > 0 {
			if err := repo.ReplaceTaskLabels(ctx, created.ID, labelIDs); err != nil {
				t.Fatalf("ReplaceTaskLabels(%s) error = %v", title, err)
			}
		}
		return created
	}
	mk("old bug", 0, bug.ID)
	newBug := mk("new bug", time.Minute, bug.ID)
	mk("feature", 2*time.Minute, feature.ID)
	mk("plain", 3*time.Minute)

	all, err := repo.ListTasks(ctx, app.TaskFilter{ProjectID: project.ID})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(all))
	}
	if all[0].Title != "plain" {
		t.Fatalf("expected most-recently-updated first, got %q", all[0].Title)
	}
	if len(all[0].Labels) != 0 || len(all[1].Labels) != 1 {
		t.Fatalf("expected labels attached to listing, got %#v / %#v", all[0].Labels, all[1].Labels)
	}

	bugs, err := repo.ListTasks(ctx, app.TaskFilter{ProjectID: project.ID, LabelIDs: []int64{bug.ID}})
	if err != nil {
		t.Fatalf("ListTasks(bug) error = %v", err)
	}
	if len(bugs) != 2 || bugs[0].ID != newBug.ID {
		t.Fatalf("unexpected filtered tasks %#v", bugs)
	}

	both, err := repo.ListTasks(ctx, app.TaskFilter{ProjectID: project.ID, LabelIDs: []int64{bug.ID, feature.ID}})
	if err != nil {
		t.Fatalf("ListTasks(bug|feature) error = %v", err)
	}
	if len(both) != 3 {
		t.Fatalf("expected 3 tasks matching either label, got %d", len(both))
	}
}

func TestRepository_ReplaceTaskLabelsIsFullSwap(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	_, project := seedBoard(t, repo)

	a, _ := repo.CreateLabel(ctx, domain.Label{Name: "A", Color: "#111111"})
	b, _ := repo.CreateLabel(ctx, domain.Label{Name: "B", Color: "#222222"})
	task, _ := domain.NewTask(domain.TaskInput{ProjectID: project.ID, Title: "swap"}, time.Now())
	created, err := repo.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if err := repo.ReplaceTaskLabels(ctx, created.ID, []int64{a.ID}); err != nil {
		t.Fatalf("ReplaceTaskLabels(first) error = %v", err)
	}
	if err := repo.ReplaceTaskLabels(ctx, created.ID, []int64{b.ID}); err != nil {
		t.Fatalf("ReplaceTaskLabels(second) error = %v", err)
	}
	loaded, err := repo.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if len(loaded.Labels) != 1 || loaded.Labels[0].ID != b.ID {
		t.Fatalf("expected full swap to label B, got %#v", loaded.Labels)
	}

	if err := repo.ReplaceTaskLabels(ctx, created.ID, nil); err != nil {
		t.Fatalf("ReplaceTaskLabels(clear) error = %v", err)
	}
	cleared, _ := repo.GetTask(ctx, created.ID)
	if len(cleared.Labels) != 0 {
		t.Fatalf("expected cleared labels, got %#v", cleared.Labels)
	}

	if err := repo.ReplaceTaskLabels(ctx, 9999, []int64{a.ID}); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for missing task, got %v", err)
	}
}

func TestRepository_ProjectMembershipAndCascade(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	owner, project := seedBoard(t, repo)
	other := seedUser(t, repo, "Bea", "bea@example.com")

	loaded, err := repo.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if len(loaded.Members) != 1 || loaded.Members[0].Role != domain.RoleOwner || loaded.Members[0].UserID != owner.ID {
		t.Fatalf("expected creator as OWNER, got %#v", loaded.Members)
	}

	if err := repo.AddProjectMember(ctx, project.ID, other.ID, domain.RoleMember); err != nil {
		t.Fatalf("AddProjectMember() error = %v", err)
	}
	mine, err := repo.ListProjectsForUser(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListProjectsForUser() error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != project.ID {
		t.Fatalf("unexpected member projects %#v", mine)
	}

	task, _ := domain.NewTask(domain.TaskInput{ProjectID: project.ID, Title: "doomed"}, time.Now())
	created, err := repo.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if err := repo.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if _, err := repo.GetTask(ctx, created.ID); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected task cascade delete, got %v", err)
	}
	if err := repo.DeleteProject(ctx, project.ID); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for second delete, got %v", err)
	}
}

func TestRepository_NotFoundCases(t *testing.T) {
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	ctx := context.Background()
	if _, err := repo.GetProject(ctx, 42); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for project, got %v", err)
	}
	if _, err := repo.GetTask(ctx, 42); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for task, got %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for user, got %v", err)
	}
	if err := repo.UpdateTask(ctx, domain.Task{ID: 42, Title: "x", Status: domain.StatusTodo, Priority: domain.PriorityLow}); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound for UpdateTask, got %v", err)
	}
}

func TestRepositoryOpenValidation(t *testing.T) {
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}
