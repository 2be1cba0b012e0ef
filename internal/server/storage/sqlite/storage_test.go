package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func createTestUser(t *testing.T, store *Storage, username, email string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakehashfortesting",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	require.NotZero(t, user.ID)

	return user
}

func TestNew_MigrationsApplied(t *testing.T) {
	store := setupTestStorage(t)

	// All three tables exist after migration
	for _, table := range []string{"users", "refresh_tokens", "tasks"} {
		var name string
		err := store.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}
