package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/internal/server/storage"
	"github.com/taskwire/taskwire/pkg/api"
)

// mockTaskStorage is a mock implementation of TaskStorage for testing
type mockTaskStorage struct {
	tasks       map[int64]*models.Task
	nextID      int64
	createError error
	listError   error
}

func newMockTaskStorage() *mockTaskStorage {
	return &mockTaskStorage{tasks: make(map[int64]*models.Task)}
}

func (m *mockTaskStorage) CreateTask(ctx context.Context, task *models.Task) error {
	if m.createError != nil {
		return m.createError
	}
	m.nextID++
	task.ID = m.nextID
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskStorage) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, storage.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStorage) ListTasks(ctx context.Context, userID int64) ([]*models.Task, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []*models.Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (m *mockTaskStorage) UpdateTask(ctx context.Context, task *models.Task) error {
	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return storage.ErrTaskNotFound
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskStorage) DeleteTask(ctx context.Context, userID, taskID int64) error {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return storage.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func authedRequest(method, target string, userID int64, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(WithUserID(req.Context(), userID))
}

func seedTask(t *testing.T, store *mockTaskStorage, userID int64, title string) *models.Task {
	t.Helper()
	now := time.Now()
	task := &models.Task{
		UserID:    userID,
		Title:     title,
		Status:    models.StatusTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}

func TestTaskHandler_Create_Success(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	body, err := json.Marshal(api.CreateTaskRequest{
		Title:       "Write release notes",
		Description: "for v1.2",
	})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/tasks", 1, body)
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp api.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Write release notes", resp.Title)
	assert.Equal(t, "for v1.2", resp.Description)
	assert.Equal(t, "TODO", resp.Status)
}

func TestTaskHandler_Create_ExplicitStatus(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	body, err := json.Marshal(api.CreateTaskRequest{
		Title:  "Deploy",
		Status: "IN_PROGRESS",
	})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/tasks", 1, body)
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp api.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "IN_PROGRESS", resp.Status)
}

func TestTaskHandler_Create_Validation(t *testing.T) {
	handler := NewTaskHandler(setupTestLogger(), newMockTaskStorage())

	tests := []struct {
		name    string
		request api.CreateTaskRequest
	}{
		{"empty title", api.CreateTaskRequest{Title: ""}},
		{"whitespace title", api.CreateTaskRequest{Title: "   "}},
		{"unknown status", api.CreateTaskRequest{Title: "ok", Status: "DONE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			req := authedRequest(http.MethodPost, "/tasks", 1, body)
			w := httptest.NewRecorder()
			handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTaskHandler_Create_NoUserInContext(t *testing.T) {
	handler := NewTaskHandler(setupTestLogger(), newMockTaskStorage())

	body, err := json.Marshal(api.CreateTaskRequest{Title: "orphan"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskHandler_List_Success(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 1, "first")
	seedTask(t, store, 1, "second")
	seedTask(t, store, 2, "other user")

	req := authedRequest(http.MethodGet, "/tasks", 1, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []api.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestTaskHandler_List_Empty(t *testing.T) {
	handler := NewTaskHandler(setupTestLogger(), newMockTaskStorage())

	req := authedRequest(http.MethodGet, "/tasks", 1, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Empty list must serialize as [], not null
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestTaskHandler_Get_Success(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	task := seedTask(t, store, 1, "mine")

	req := authedRequest(http.MethodGet, "/tasks/1", 1, nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, task.ID, resp.ID)
	assert.Equal(t, "mine", resp.Title)
}

func TestTaskHandler_Get_NotFound(t *testing.T) {
	handler := NewTaskHandler(setupTestLogger(), newMockTaskStorage())

	req := authedRequest(http.MethodGet, "/tasks/99", 1, nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_Get_ForeignTaskIs404(t *testing.T) {
	// Another user's task must look exactly like a missing one.
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	task := seedTask(t, store, 2, "not yours")

	req := authedRequest(http.MethodGet, "/tasks/1", 1, nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "task not found", resp.Message)

	// The task itself is untouched
	_, err := store.GetTask(context.Background(), 2, task.ID)
	assert.NoError(t, err)
}

func TestTaskHandler_Get_InvalidID(t *testing.T) {
	handler := NewTaskHandler(setupTestLogger(), newMockTaskStorage())

	req := authedRequest(http.MethodGet, "/tasks/abc", 1, nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Update_Partial(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 1, "original")

	status := "COMPLETED"
	body, err := json.Marshal(api.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)

	req := authedRequest(http.MethodPut, "/tasks/1", 1, body)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "COMPLETED", resp.Status)
	// Omitted fields stay untouched
	assert.Equal(t, "original", resp.Title)
}

func TestTaskHandler_Update_Validation(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 1, "original")

	empty := ""
	badStatus := "DONE"

	tests := []struct {
		name    string
		request api.UpdateTaskRequest
	}{
		{"empty title", api.UpdateTaskRequest{Title: &empty}},
		{"unknown status", api.UpdateTaskRequest{Status: &badStatus}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.request)
			require.NoError(t, err)

			req := authedRequest(http.MethodPut, "/tasks/1", 1, body)
			req.SetPathValue("id", "1")
			w := httptest.NewRecorder()
			handler.Update(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTaskHandler_Update_ForeignTaskIs404(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 2, "not yours")

	title := "hijacked"
	body, err := json.Marshal(api.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)

	req := authedRequest(http.MethodPut, "/tasks/1", 1, body)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// Still owned and unchanged
	task, err := store.GetTask(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "not yours", task.Title)
}

func TestTaskHandler_Delete_Success(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 1, "doomed")

	req := authedRequest(http.MethodDelete, "/tasks/1", 1, nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := store.GetTask(context.Background(), 1, 1)
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
}

func TestTaskHandler_Delete_ForeignTaskIs404(t *testing.T) {
	store := newMockTaskStorage()
	handler := NewTaskHandler(setupTestLogger(), store)

	seedTask(t, store, 2, "protected")

	req := authedRequest(http.MethodDelete, "/tasks/1", 1, nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := store.GetTask(context.Background(), 2, 1)
	assert.NoError(t, err)
}

func TestTaskHandler_List_StorageError(t *testing.T) {
	store := newMockTaskStorage()
	store.listError = errors.New("database error")
	handler := NewTaskHandler(setupTestLogger(), store)

	req := authedRequest(http.MethodGet, "/tasks", 1, nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
