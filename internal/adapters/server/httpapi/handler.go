// Package httpapi provides the form-intent HTTP adapter for the board.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mlundekvam/tavle/internal/adapters/server/common"
	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

// maxFormBytes bounds parsed form payload size.
const maxFormBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
// Mutations arrive as form posts carrying an `intent` field; every failure
// surfaces as a single `error` field.
type Handler struct {
	board    common.BoardService
	sessions *Sessions
}

// NewHandler constructs the HTTP adapter.
func NewHandler(board common.BoardService, sessions *Sessions) *Handler {
	if sessions == nil {
		sessions = NewSessions()
	}
	return &Handler{board: board, sessions: sessions}
}

// ServeHTTP routes one API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch normalizePath(r.URL.Path) {
	case "login":
		h.requireMethod(w, r, http.MethodPost, h.handleLogin)
	case "logout":
		h.requireMethod(w, r, http.MethodPost, h.handleLogout)
	case "tasks":
		switch r.Method {
		case http.MethodGet:
			h.handleListTasks(w, r)
		case http.MethodPost:
			h.handleTaskIntent(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case "labels":
		h.requireMethod(w, r, http.MethodGet, h.handleListLabels)
	case "projects":
		switch r.Method {
		case http.MethodGet:
			h.handleListProjects(w, r)
		case http.MethodPost:
			h.handleCreateProject(w, r)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

// requireMethod rejects every method except the given one.
func (h *Handler) requireMethod(w http.ResponseWriter, r *http.Request, method string, next func(http.ResponseWriter, *http.Request)) {
	if r.Method != method {
		writeMethodNotAllowed(w, method)
		return
	}
	next(w, r)
}

// handleLogin serves POST `/login` with form fields email and password.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.board.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    h.sessions.Start(user.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, common.UserRecordFrom(user))
}

// handleLogout serves POST `/logout`.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		h.sessions.End(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTasks serves GET `/tasks?project_id=N&label_id=N...`.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.URL.Query().Get("project_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	labelIDs, err := parseIDs(r.URL.Query()["label_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid label_id")
		return
	}
	tasks, err := h.board.ListTasks(r.Context(), app.ListTasksInput{ProjectID: projectID, LabelIDs: labelIDs})
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": common.TaskRecordsFrom(tasks)})
}

// handleTaskIntent dispatches POST `/tasks` on its `intent` form field.
func (h *Handler) handleTaskIntent(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch intent := strings.TrimSpace(r.PostFormValue("intent")); intent {
	case "create":
		h.intentCreate(w, r)
	case "update":
		h.intentUpdate(w, r)
	case "update_status":
		h.intentUpdateStatus(w, r)
	case "change_labels":
		h.intentChangeLabels(w, r)
	case "comment":
		h.intentComment(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown intent "+strconv.Quote(intent))
	}
}

// intentCreate creates a task in the posted column.
func (h *Handler) intentCreate(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.PostFormValue("project_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	in := app.CreateTaskInput{
		ProjectID:   projectID,
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}
	if raw := strings.TrimSpace(r.PostFormValue("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		in.Status = status
	}
	if raw := strings.TrimSpace(r.PostFormValue("parent_id")); raw != "" {
		parentID, err := parseID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid parent_id")
			return
		}
		in.ParentID = &parentID
	}
	task, err := h.board.CreateTask(r.Context(), in)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, common.TaskRecordFrom(task))
}

// intentUpdate replaces a task's title and description.
func (h *Handler) intentUpdate(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseID(r.PostFormValue("task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	task, err := h.board.UpdateTaskDetails(r.Context(), app.UpdateTaskInput{
		TaskID:      taskID,
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	})
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.TaskRecordFrom(task))
}

// intentUpdateStatus moves a task to another column.
func (h *Handler) intentUpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseID(r.PostFormValue("task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	status, err := domain.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	task, err := h.board.UpdateTaskStatus(r.Context(), taskID, status)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.TaskRecordFrom(task))
}

// intentChangeLabels replaces a task's full label set. label_id may repeat;
// posting none clears the set.
func (h *Handler) intentChangeLabels(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseID(r.PostFormValue("task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	labelIDs, err := parseIDs(r.PostForm["label_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid label_id")
		return
	}
	if err := h.board.ReplaceTaskLabels(r.Context(), taskID, labelIDs); err != nil {
		writeErrorFrom(w, err)
		return
	}
	task, err := h.board.GetTask(r.Context(), taskID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, common.TaskRecordFrom(task))
}

// intentComment adds a comment authored by the session user.
func (h *Handler) intentComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.userFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	taskID, err := parseID(r.PostFormValue("task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	comment, err := h.board.AddComment(r.Context(), taskID, userID, r.PostFormValue("content"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, common.CommentRecordFrom(comment))
}

// handleListLabels serves GET `/labels`.
func (h *Handler) handleListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := h.board.ListLabels(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out := []common.LabelRecord{}
	for _, l := range labels {
		out = append(out, common.LabelRecord(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"labels": out})
}

// handleListProjects serves GET `/projects`.
func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.board.ListProjects(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	out := []common.ProjectRecord{}
	for _, p := range projects {
		out = append(out, common.ProjectRecordFrom(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

// handleCreateProject serves POST `/projects`. The session user becomes the
// creator and OWNER.
func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.userFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := h.board.CreateProject(r.Context(), r.PostFormValue("name"), r.PostFormValue("description"), userID)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, common.ProjectRecordFrom(project))
}

// parseForm parses a bounded form body.
func parseForm(r *http.Request) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return errors.New("malformed form body")
	}
	return nil
}

// parseID parses one positive integer identifier.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parseIDs parses repeated identifier values.
func parseIDs(raw []string) ([]int64, error) {
	out := []int64{}
	for _, v := range raw {
		id, err := parseID(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// writeErrorFrom maps service errors onto HTTP statuses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeError(w, http.StatusInternalServerError, "unknown error")
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, domain.ErrParentProject):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeMethodNotAllowed writes a 405 with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeError writes the single-field error shape.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeJSON writes one JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
