package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

// fakeBoard records the calls the handler makes.
type fakeBoard struct {
	tasks map[int64]domain.Task

	createdInputs  []app.CreateTaskInput
	statusUpdates  []domain.Status
	replacedLabels [][]int64
	comments       []string
	authErr        error
}

func newFakeBoard() *fakeBoard {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	return &fakeBoard{
		tasks: map[int64]domain.Task{
			1: {
				ID: 1, ProjectID: 1, Title: "Existing", Status: domain.StatusTodo,
				Priority: domain.PriorityMedium, CreatedAt: now, UpdatedAt: now,
				Assignees: []domain.User{}, Labels: []domain.Label{}, Comments: []domain.Comment{},
			},
		},
	}
}

func (f *fakeBoard) CreateTask(_ context.Context, in app.CreateTaskInput) (domain.Task, error) {
	f.createdInputs = append(f.createdInputs, in)
	task, err := domain.NewTask(domain.TaskInput{
		ProjectID:   in.ProjectID,
		ParentID:    in.ParentID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}, time.Now())
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = int64(len(f.tasks) + 1)
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeBoard) UpdateTaskDetails(_ context.Context, in app.UpdateTaskInput) (domain.Task, error) {
	task, ok := f.tasks[in.TaskID]
	if !ok {
		return domain.Task{}, app.ErrNotFound
	}
	if err := task.UpdateDetails(in.Title, in.Description, time.Now()); err != nil {
		return domain.Task{}, err
	}
	f.tasks[in.TaskID] = task
	return task, nil
}

func (f *fakeBoard) UpdateTaskStatus(_ context.Context, taskID int64, status domain.Status) (domain.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return domain.Task{}, app.ErrNotFound
	}
	f.statusUpdates = append(f.statusUpdates, status)
	task.Status = status
	f.tasks[taskID] = task
	return task, nil
}

func (f *fakeBoard) ReplaceTaskLabels(_ context.Context, taskID int64, labelIDs []int64) error {
	if _, ok := f.tasks[taskID]; !ok {
		return app.ErrNotFound
	}
	f.replacedLabels = append(f.replacedLabels, labelIDs)
	return nil
}

func (f *fakeBoard) ListTasks(_ context.Context, in app.ListTasksInput) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, t := range f.tasks {
		if t.ProjectID == in.ProjectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeBoard) GetTask(_ context.Context, taskID int64) (domain.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return domain.Task{}, app.ErrNotFound
	}
	return task, nil
}

func (f *fakeBoard) ListLabels(context.Context) ([]domain.Label, error) {
	return []domain.Label{{ID: 1, Name: "Bug", Color: "#ef4444"}}, nil
}

func (f *fakeBoard) ListProjects(context.Context) ([]domain.Project, error) {
	return []domain.Project{{ID: 1, Name: "Board"}}, nil
}

func (f *fakeBoard) CreateProject(_ context.Context, name, description string, createdByID int64) (domain.Project, error) {
	p, err := domain.NewProject(name, description, createdByID, time.Now())
	if err != nil {
		return domain.Project{}, err
	}
	p.ID = 2
	return p, nil
}

func (f *fakeBoard) AddComment(_ context.Context, taskID, authorID int64, content string) (domain.Comment, error) {
	if _, ok := f.tasks[taskID]; !ok {
		return domain.Comment{}, app.ErrNotFound
	}
	f.comments = append(f.comments, content)
	return domain.Comment{ID: 1, TaskID: taskID, AuthorID: authorID, Content: content, Author: domain.User{ID: authorID, Name: "Ada"}}, nil
}

func (f *fakeBoard) Authenticate(_ context.Context, email, password string) (domain.User, error) {
	if f.authErr != nil {
		return domain.User{}, f.authErr
	}
	return domain.User{ID: 7, Name: "Ada", Email: email}, nil
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestHandlerCreateIntent(t *testing.T) {
	board := newFakeBoard()
	h := NewHandler(board, NewSessions())

	rec := postForm(t, h, "/tasks", url.Values{
		"intent":     {"create"},
		"project_id": {"1"},
		"title":      {"  Write tests  "},
		"status":     {"TODO"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var task struct {
		Title    string `json:"title"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Title != "Write tests" || task.Status != "TODO" || task.Priority != "MEDIUM" {
		t.Fatalf("unexpected task %+v", task)
	}
	if len(board.createdInputs) != 1 {
		t.Fatalf("expected one create call, got %d", len(board.createdInputs))
	}
}

func TestHandlerUnknownIntent(t *testing.T) {
	h := NewHandler(newFakeBoard(), NewSessions())
	rec := postForm(t, h, "/tasks", url.Values{"intent": {"destroy"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "destroy") {
		t.Fatalf("error message %q should name the intent", msg)
	}
}

func TestHandlerUpdateStatusIntent(t *testing.T) {
	board := newFakeBoard()
	h := NewHandler(board, NewSessions())

	rec := postForm(t, h, "/tasks", url.Values{
		"intent":  {"update_status"},
		"task_id": {"1"},
		"status":  {"done"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(board.statusUpdates) != 1 || board.statusUpdates[0] != domain.StatusDone {
		t.Fatalf("unexpected status updates %v", board.statusUpdates)
	}

	rec = postForm(t, h, "/tasks", url.Values{
		"intent":  {"update_status"},
		"task_id": {"1"},
		"status":  {"LIMBO"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should 400, got %d", rec.Code)
	}
	if len(board.statusUpdates) != 1 {
		t.Fatal("rejected status should not reach the service")
	}
}

func TestHandlerChangeLabelsIntent(t *testing.T) {
	board := newFakeBoard()
	h := NewHandler(board, NewSessions())

	rec := postForm(t, h, "/tasks", url.Values{
		"intent":   {"change_labels"},
		"task_id":  {"1"},
		"label_id": {"3", "5"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(board.replacedLabels) != 1 || len(board.replacedLabels[0]) != 2 {
		t.Fatalf("unexpected label replacement %v", board.replacedLabels)
	}

	rec = postForm(t, h, "/tasks", url.Values{
		"intent":  {"change_labels"},
		"task_id": {"1"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("clearing labels should succeed, got %d", rec.Code)
	}
	if len(board.replacedLabels) != 2 || len(board.replacedLabels[1]) != 0 {
		t.Fatalf("expected empty replacement set, got %v", board.replacedLabels)
	}
}

func TestHandlerListTasksRequiresProject(t *testing.T) {
	h := NewHandler(newFakeBoard(), NewSessions())
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tasks?project_id=1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(body.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(body.Tasks))
	}
}

func TestHandlerLoginFlow(t *testing.T) {
	board := newFakeBoard()
	sessions := NewSessions()
	h := NewHandler(board, sessions)

	rec := postForm(t, h, "/login", url.Values{"email": {"ada@example.com"}, "password": {"pw"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("login should set the session cookie")
	}

	rec = postForm(t, h, "/tasks", url.Values{
		"intent":  {"comment"},
		"task_id": {"1"},
		"content": {"hello"},
	}, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(board.comments) != 1 || board.comments[0] != "hello" {
		t.Fatalf("unexpected comments %v", board.comments)
	}

	rec = postForm(t, h, "/tasks", url.Values{
		"intent":  {"comment"},
		"task_id": {"1"},
		"content": {"anon"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous comment should 401, got %d", rec.Code)
	}

	board.authErr = app.ErrInvalidCredentials
	rec = postForm(t, h, "/login", url.Values{"email": {"ada@example.com"}, "password": {"bad"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
	if decodeError(t, rec) == "" {
		t.Fatal("failed login should carry the error field")
	}
}
