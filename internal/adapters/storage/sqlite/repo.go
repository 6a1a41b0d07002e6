package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores the board in a single sqlite database.
type Repository struct {
	db *sql.DB
}

// Open opens the database at path and runs migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a throwaway database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(created_by) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS project_members (
			project_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL DEFAULT 'MEMBER',
			PRIMARY KEY(project_id, user_id),
			FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS labels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL,
			parent_id INTEGER,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'TODO',
			priority TEXT NOT NULL DEFAULT 'MEDIUM',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(project_id) REFERENCES projects(id) ON DELETE CASCADE,
			FOREIGN KEY(parent_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS task_labels (
			task_id INTEGER NOT NULL,
			label_id INTEGER NOT NULL,
			PRIMARY KEY(task_id, label_id),
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY(label_id) REFERENCES labels(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS task_assignees (
			task_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			PRIMARY KEY(task_id, user_id),
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			author_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY(author_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project_updated_at ON tasks(project_id, updated_at DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_task_labels_label ON task_labels(label_id);`,
		`CREATE INDEX IF NOT EXISTS idx_comments_task_created_at ON comments(task_id, created_at ASC, id ASC);`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateUser creates a user row and returns it with its assigned ID.
func (r *Repository) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users(name, email, password_hash)
		VALUES (?, ?, ?)
	`, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		return domain.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

// GetUser returns a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by their login email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		WHERE email = ?
	`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// ListUsers lists users.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateProject inserts the project and its creator's OWNER membership in one
// transaction.
func (r *Repository) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Project{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO projects(name, description, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.Name, p.Description, p.CreatedByID, ts(p.CreatedAt), ts(p.UpdatedAt))
	if err != nil {
		return domain.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Project{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_members(project_id, user_id, role)
		VALUES (?, ?, ?)
	`, id, p.CreatedByID, domain.RoleOwner); err != nil {
		return domain.Project{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Project{}, err
	}
	p.ID = id
	return p, nil
}

// UpdateProject updates name and description.
func (r *Repository) UpdateProject(ctx context.Context, p domain.Project) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, ts(p.UpdatedAt), p.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetProject returns a project with its member list attached.
func (r *Repository) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM projects
		WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, err
	}
	p.Members, err = r.projectMembers(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// ListProjects lists all projects without member lists.
func (r *Repository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM projects
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListProjectsForUser lists the projects the user is a member of.
func (r *Repository) ListProjectsForUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = ?
		ORDER BY p.created_at ASC, p.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// DeleteProject deletes the project. Tasks, memberships, label links and
// comments go with it through the cascading foreign keys.
func (r *Repository) DeleteProject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// AddProjectMember upserts one membership row.
func (r *Repository) AddProjectMember(ctx context.Context, projectID, userID int64, role domain.MemberRole) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_members(project_id, user_id, role)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET role = excluded.role
	`, projectID, userID, role)
	return err
}

// projectMembers loads memberships with user records attached.
func (r *Repository) projectMembers(ctx context.Context, projectID int64) ([]domain.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.user_id, m.role, u.id, u.name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = ?
		ORDER BY m.role ASC, u.name ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ProjectMember{}
	for rows.Next() {
		var (
			m    domain.ProjectMember
			role string
		)
		if err := rows.Scan(&m.UserID, &role, &m.User.ID, &m.User.Name, &m.User.Email); err != nil {
			return nil, err
		}
		m.Role = domain.MemberRole(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateLabel creates a label and returns it with its assigned ID.
func (r *Repository) CreateLabel(ctx context.Context, l domain.Label) (domain.Label, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO labels(name, color)
		VALUES (?, ?)
	`, l.Name, l.Color)
	if err != nil {
		return domain.Label{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Label{}, err
	}
	l.ID = id
	return l, nil
}

// ListLabels lists labels ordered by name.
func (r *Repository) ListLabels(ctx context.Context) ([]domain.Label, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color
		FROM labels
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Label{}
	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateTask inserts the task row and returns it with its assigned ID.
// Relations are attached by GetTask.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks(project_id, parent_id, title, description, status, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ProjectID, nullableID(t.ParentID), t.Title, t.Description, t.Status, t.Priority, ts(t.CreatedAt), ts(t.UpdatedAt))
	if err != nil {
		return domain.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}
	t.ID = id
	return t, nil
}

// UpdateTask updates the task's own columns. Relation tables have their own
// operations.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Status, t.Priority, ts(t.UpdatedAt), t.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetTask returns one task with labels, assignees, comments, subtask stubs
// and the parent stub attached.
func (r *Repository) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, parent_id, title, description, status, priority, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`, id)
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, err
	}

	labels, err := r.labelsForTasks(ctx, []int64{t.ID})
	if err != nil {
		return domain.Task{}, err
	}
	t.Labels = labels[t.ID]
	assignees, err := r.assigneesForTasks(ctx, []int64{t.ID})
	if err != nil {
		return domain.Task{}, err
	}
	t.Assignees = assignees[t.ID]
	t.Comments, err = r.commentsForTask(ctx, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	t.Subtasks, err = r.taskStubs(ctx, `SELECT id, title, status FROM tasks WHERE parent_id = ? ORDER BY id ASC`, t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	if t.ParentID != nil {
		stubs, err := r.taskStubs(ctx, `SELECT id, title, status FROM tasks WHERE id = ?`, *t.ParentID)
		if err != nil {
			return domain.Task{}, err
		}
		if len(stubs) == 1 {
			t.Parent = &stubs[0]
		}
	}
	return t, nil
}

// ListTasks lists a project's tasks most-recently-updated first, optionally
// narrowed to tasks carrying at least one of the filter labels. Labels and
// assignees are attached; comments and stubs stay on the single-task read.
func (r *Repository) ListTasks(ctx context.Context, filter app.TaskFilter) ([]domain.Task, error) {
	query := `
		SELECT id, project_id, parent_id, title, description, status, priority, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
	`
	args := []any{filter.ProjectID}
	if len(filter.LabelIDs) > 0 {
		query += ` AND EXISTS (
			SELECT 1 FROM task_labels tl
			WHERE tl.task_id = tasks.id AND tl.label_id IN (` + placeholders(len(filter.LabelIDs)) + `)
		)`
		for _, labelID := range filter.LabelIDs {
			args = append(args, labelID)
		}
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Task{}
	ids := []int64{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	labels, err := r.labelsForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	assignees, err := r.assigneesForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Labels = labels[out[i].ID]
		out[i].Assignees = assignees[out[i].ID]
	}
	return out, nil
}

// ReplaceTaskLabels swaps the task's full label set in one transaction.
func (r *Repository) ReplaceTaskLabels(ctx context.Context, taskID int64, labelIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, taskID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id = ?`, taskID); err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_labels(task_id, label_id)
			VALUES (?, ?)
		`, taskID, labelID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AssignTask adds the user to the task's assignee set.
func (r *Repository) AssignTask(ctx context.Context, taskID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO task_assignees(task_id, user_id)
		VALUES (?, ?)
		ON CONFLICT(task_id, user_id) DO NOTHING
	`, taskID, userID)
	return err
}

// CreateComment creates a comment and returns it with its assigned ID and
// author attached.
func (r *Repository) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO comments(task_id, author_id, content, created_at)
		VALUES (?, ?, ?, ?)
	`, c.TaskID, c.AuthorID, c.Content, ts(c.CreatedAt))
	if err != nil {
		return domain.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Comment{}, err
	}
	c.ID = id
	c.Author, err = r.GetUser(ctx, c.AuthorID)
	if err != nil {
		return domain.Comment{}, err
	}
	c.Author.PasswordHash = ""
	return c, nil
}

// labelsForTasks loads label sets for the given task IDs keyed by task.
func (r *Repository) labelsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Label, error) {
	out := map[int64][]domain.Label{}
	for _, id := range taskIDs {
		out[id] = []domain.Label{}
	}
	args := make([]any, 0, len(taskIDs))
	for _, id := range taskIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT tl.task_id, l.id, l.name, l.color
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY l.name ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID int64
			l      domain.Label
		)
		if err := rows.Scan(&taskID, &l.ID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], l)
	}
	return out, rows.Err()
}

// assigneesForTasks loads assignee sets for the given task IDs keyed by task.
func (r *Repository) assigneesForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.User, error) {
	out := map[int64][]domain.User{}
	for _, id := range taskIDs {
		out[id] = []domain.User{}
	}
	args := make([]any, 0, len(taskIDs))
	for _, id := range taskIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT ta.task_id, u.id, u.name, u.email
		FROM task_assignees ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.task_id IN (`+placeholders(len(taskIDs))+`)
		ORDER BY u.name ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID int64
			u      domain.User
		)
		if err := rows.Scan(&taskID, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], u)
	}
	return out, rows.Err()
}

// commentsForTask loads a task's comments oldest first with authors attached.
func (r *Repository) commentsForTask(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.task_id, c.author_id, c.content, c.created_at, u.id, u.name, u.email
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.task_id = ?
		ORDER BY c.created_at ASC, c.id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		var (
			c          domain.Comment
			createdRaw string
		)
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &createdRaw, &c.Author.ID, &c.Author.Name, &c.Author.Email); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTS(createdRaw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// taskStubs runs a stub query with one int64 argument.
func (r *Repository) taskStubs(ctx context.Context, query string, arg int64) ([]domain.TaskStub, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.TaskStub{}
	for rows.Next() {
		var (
			stub   domain.TaskStub
			status string
		)
		if err := rows.Scan(&stub.ID, &stub.Title, &status); err != nil {
			return nil, err
		}
		stub.Status = domain.Status(status)
		out = append(out, stub)
	}
	return out, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser handles scan user.
func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, app.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// scanProject handles scan project.
func scanProject(s scanner) (domain.Project, error) {
	var (
		p          domain.Project
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedByID, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, app.ErrNotFound
		}
		return domain.Project{}, err
	}
	p.CreatedAt = parseTS(createdRaw)
	p.UpdatedAt = parseTS(updatedRaw)
	return p, nil
}

// collectProjects drains project rows.
func collectProjects(rows *sql.Rows) ([]domain.Project, error) {
	out := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanTask handles scan task.
func scanTask(s scanner) (domain.Task, error) {
	var (
		t          domain.Task
		parentID   sql.NullInt64
		status     string
		priority   string
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(
		&t.ID,
		&t.ProjectID,
		&parentID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, app.ErrNotFound
		}
		return domain.Task{}, err
	}
	if parentID.Valid {
		t.ParentID = &parentID.Int64
	}
	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	t.CreatedAt = parseTS(createdRaw)
	t.UpdatedAt = parseTS(updatedRaw)
	t.Labels = []domain.Label{}
	t.Assignees = []domain.User{}
	t.Comments = []domain.Comment{}
	t.Subtasks = []domain.TaskStub{}
	return t, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// placeholders builds a "?, ?" list of the given length.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullableID handles nullable id.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
