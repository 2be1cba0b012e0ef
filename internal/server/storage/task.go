package storage

import (
	"context"

	"github.com/taskwire/taskwire/internal/models"
)

// TaskStorage defines interface for task persistence. Every lookup is
// scoped to an owning user; a task belonging to someone else behaves
// exactly like a missing one.
type TaskStorage interface {
	// CreateTask stores a new task and fills in the generated ID.
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves one task by ID for the given owner
	// Returns ErrTaskNotFound if absent or owned by another user
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)

	// ListTasks returns all tasks of a user, newest first
	ListTasks(ctx context.Context, userID int64) ([]*models.Task, error)

	// UpdateTask persists title, description and status of an owned task
	// Returns ErrTaskNotFound if absent or owned by another user
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes an owned task
	// Returns ErrTaskNotFound if absent or owned by another user
	DeleteTask(ctx context.Context, userID, taskID int64) error
}
