package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/internal/server/storage"
	"github.com/taskwire/taskwire/pkg/api"
)

// TaskHandler serves the task resource. The owning user id always comes
// from the request context set by the auth middleware, never from the
// request itself.
type TaskHandler struct {
	logger  *slog.Logger
	storage storage.TaskStorage
}

// NewTaskHandler creates a new handler for the task endpoints
func NewTaskHandler(logger *slog.Logger, storage storage.TaskStorage) *TaskHandler {
	return &TaskHandler{
		logger:  logger,
		storage: storage,
	}
}

// List handles GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	tasks, err := h.storage.ListTasks(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Any("error", err), slog.Int64("user_id", userID))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Task, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, toAPITask(task))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Get handles GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		h.sendError(w, "task id must be an integer", http.StatusBadRequest)
		return
	}

	task, err := h.storage.GetTask(ctx, userID, taskID)
	if err != nil {
		h.respondTaskError(w, r, err, userID, taskID)
		return
	}

	h.sendJSON(w, toAPITask(task), http.StatusOK)
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		h.sendError(w, "title is required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = string(models.StatusTodo)
	}
	if !models.ValidStatus(status) {
		h.sendError(w, "status must be TODO, IN_PROGRESS, or COMPLETED", http.StatusBadRequest)
		return
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.storage.CreateTask(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to create task", slog.Any("error", err), slog.Int64("user_id", userID))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "task created", slog.Int64("task_id", task.ID), slog.Int64("user_id", userID))

	h.sendJSON(w, toAPITask(task), http.StatusCreated)
}

// Update handles PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		h.sendError(w, "task id must be an integer", http.StatusBadRequest)
		return
	}

	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		h.sendError(w, "title cannot be empty", http.StatusBadRequest)
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		h.sendError(w, "status must be TODO, IN_PROGRESS, or COMPLETED", http.StatusBadRequest)
		return
	}

	task, err := h.storage.GetTask(ctx, userID, taskID)
	if err != nil {
		h.respondTaskError(w, r, err, userID, taskID)
		return
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}
	task.UpdatedAt = time.Now()

	if err := h.storage.UpdateTask(ctx, task); err != nil {
		h.respondTaskError(w, r, err, userID, taskID)
		return
	}

	h.logger.InfoContext(ctx, "task updated", slog.Int64("task_id", task.ID), slog.Int64("user_id", userID))

	h.sendJSON(w, toAPITask(task), http.StatusOK)
}

// Delete handles DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		h.sendError(w, "task id must be an integer", http.StatusBadRequest)
		return
	}

	if err := h.storage.DeleteTask(ctx, userID, taskID); err != nil {
		h.respondTaskError(w, r, err, userID, taskID)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.Int64("task_id", taskID), slog.Int64("user_id", userID))

	h.sendJSON(w, api.MessageResponse{Message: "task deleted successfully"}, http.StatusOK)
}

// respondTaskError maps storage failures to responses. A task owned by
// another user is reported as 404, never 403, so that foreign ids are
// indistinguishable from absent ones.
func (h *TaskHandler) respondTaskError(w http.ResponseWriter, r *http.Request, err error, userID, taskID int64) {
	if errors.Is(err, storage.ErrTaskNotFound) {
		h.sendError(w, "task not found", http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "task storage error",
		slog.Any("error", err),
		slog.Int64("user_id", userID),
		slog.Int64("task_id", taskID))
	h.sendError(w, "internal server error", http.StatusInternalServerError)
}

func parseTaskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func toAPITask(task *models.Task) api.Task {
	return api.Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (h *TaskHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

func (h *TaskHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendError(h.logger, w, message, statusCode)
}
