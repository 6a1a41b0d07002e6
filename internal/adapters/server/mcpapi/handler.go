// Package mcpapi exposes the board operations as MCP tools over stateless
// streamable HTTP.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mlundekvam/tavle/internal/adapters/server/common"
	"github.com/mlundekvam/tavle/internal/app"
	"github.com/mlundekvam/tavle/internal/domain"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds the MCP adapter over the board service.
func NewHandler(cfg Config, board common.BoardService) (*Handler, error) {
	if board == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerTaskTools(mcpSrv, board)
	registerBoardTools(mcpSrv, board)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tavle"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerTaskTools registers the task mutation and read tools.
func registerTaskTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavle.list_tasks",
			mcp.WithDescription("List a project's tasks with labels and assignees attached."),
			mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project identifier")),
			mcp.WithArray("label_ids", mcp.Description("Optional label id filter"), mcp.WithStringItems()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projectID, err := req.RequireInt("project_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			labelIDs, err := parseIDStrings(req.GetStringSlice("label_ids", nil))
			if err != nil {
				return mcp.NewToolResultError("invalid_request: " + err.Error()), nil
			}
			tasks, err := board.ListTasks(ctx, app.ListTasksInput{ProjectID: int64(projectID), LabelIDs: labelIDs})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"tasks": common.TaskRecordsFrom(tasks)})
			if err != nil {
				return nil, fmt.Errorf("encode list_tasks result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.get_task",
			mcp.WithDescription("Return one task with assignees, labels, comments, sub-tasks and parent."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			task, err := board.GetTask(ctx, int64(taskID))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.TaskRecordFrom(task))
			if err != nil {
				return nil, fmt.Errorf("encode get_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.create_task",
			mcp.WithDescription("Create a task. Status defaults to TODO, priority to MEDIUM."),
			mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			mcp.WithString("description", mcp.Description("Task description")),
			mcp.WithString("status", mcp.Description("Board column"), mcp.Enum(statusValues()...)),
			mcp.WithNumber("parent_id", mcp.Description("Parent task in the same project")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projectID, err := req.RequireInt("project_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in := app.CreateTaskInput{
				ProjectID:   int64(projectID),
				Title:       title,
				Description: req.GetString("description", ""),
			}
			if raw := req.GetString("status", ""); raw != "" {
				status, err := domain.ParseStatus(raw)
				if err != nil {
					return toolResultFromError(err), nil
				}
				in.Status = status
			}
			if parent := req.GetInt("parent_id", 0); parent > 0 {
				parentID := int64(parent)
				in.ParentID = &parentID
			}
			task, err := board.CreateTask(ctx, in)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.TaskRecordFrom(task))
			if err != nil {
				return nil, fmt.Errorf("encode create_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.update_task",
			mcp.WithDescription("Replace a task's title and description."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			task, err := board.UpdateTaskDetails(ctx, app.UpdateTaskInput{
				TaskID:      int64(taskID),
				Title:       title,
				Description: req.GetString("description", ""),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.TaskRecordFrom(task))
			if err != nil {
				return nil, fmt.Errorf("encode update_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.move_task",
			mcp.WithDescription("Move a task to another board column."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithString("status", mcp.Required(), mcp.Description("Destination column"), mcp.Enum(statusValues()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			raw, err := req.RequireString("status")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			status, err := domain.ParseStatus(raw)
			if err != nil {
				return toolResultFromError(err), nil
			}
			task, err := board.UpdateTaskStatus(ctx, int64(taskID), status)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.TaskRecordFrom(task))
			if err != nil {
				return nil, fmt.Errorf("encode move_task result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.change_labels",
			mcp.WithDescription("Replace a task's full label set. An empty set clears all labels."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithArray("label_ids", mcp.Description("New label id set"), mcp.WithStringItems()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			labelIDs, err := parseIDStrings(req.GetStringSlice("label_ids", nil))
			if err != nil {
				return mcp.NewToolResultError("invalid_request: " + err.Error()), nil
			}
			if err := board.ReplaceTaskLabels(ctx, int64(taskID), labelIDs); err != nil {
				return toolResultFromError(err), nil
			}
			task, err := board.GetTask(ctx, int64(taskID))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.TaskRecordFrom(task))
			if err != nil {
				return nil, fmt.Errorf("encode change_labels result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.add_comment",
			mcp.WithDescription("Attach a comment to a task."),
			mcp.WithNumber("task_id", mcp.Required(), mcp.Description("Task identifier")),
			mcp.WithNumber("author_id", mcp.Required(), mcp.Description("Commenting user")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Comment body")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			taskID, err := req.RequireInt("task_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			authorID, err := req.RequireInt("author_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			content, err := req.RequireString("content")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			comment, err := board.AddComment(ctx, int64(taskID), int64(authorID), content)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(common.CommentRecordFrom(comment))
			if err != nil {
				return nil, fmt.Errorf("encode add_comment result: %w", err)
			}
			return result, nil
		},
	)
}

// registerBoardTools registers the label and project read tools.
func registerBoardTools(srv *mcpserver.MCPServer, board common.BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavle.list_labels",
			mcp.WithDescription("List all labels."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			labels, err := board.ListLabels(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			out := []common.LabelRecord{}
			for _, l := range labels {
				out = append(out, common.LabelRecord(l))
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"labels": out})
			if err != nil {
				return nil, fmt.Errorf("encode list_labels result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tavle.list_projects",
			mcp.WithDescription("List all projects."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projects, err := board.ListProjects(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			out := []common.ProjectRecord{}
			for _, p := range projects {
				out = append(out, common.ProjectRecordFrom(p))
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"projects": out})
			if err != nil {
				return nil, fmt.Errorf("encode list_projects result: %w", err)
			}
			return result, nil
		},
	)
}

// statusValues returns the board columns for enum declarations.
func statusValues() []string {
	out := []string{}
	for _, s := range domain.Statuses() {
		out = append(out, string(s))
	}
	return out
}

// parseIDStrings parses decimal id strings into int64 values.
func parseIDStrings(raw []string) ([]int64, error) {
	out := []int64{}
	for _, v := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", v)
		}
		out = append(out, id)
	}
	return out, nil
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, domain.ErrParentProject):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
