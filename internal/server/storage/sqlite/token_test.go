package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/internal/server/storage"
)

func saveTestToken(t *testing.T, store *Storage, token string, userID int64, expiresAt time.Time) {
	t.Helper()

	require.NoError(t, store.SaveRefreshToken(context.Background(), &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}))
}

func TestSaveAndGetRefreshToken(t *testing.T) {
	store := setupTestStorage(t)
	user := createTestUser(t, store, "alice", "alice@example.com")

	expiresAt := time.Now().Add(24 * time.Hour)
	saveTestToken(t, store, "token-1", user.ID, expiresAt)

	token, err := store.GetRefreshToken(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token.Token)
	assert.Equal(t, user.ID, token.UserID)
	assert.WithinDuration(t, expiresAt, token.ExpiresAt, time.Second)
}

func TestGetRefreshToken_NotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetRefreshToken(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestSaveRefreshToken_Replace(t *testing.T) {
	store := setupTestStorage(t)
	user := createTestUser(t, store, "alice", "alice@example.com")

	saveTestToken(t, store, "token-1", user.ID, time.Now().Add(time.Hour))

	// Saving the same token value again replaces the row
	later := time.Now().Add(48 * time.Hour)
	saveTestToken(t, store, "token-1", user.ID, later)

	token, err := store.GetRefreshToken(context.Background(), "token-1")
	require.NoError(t, err)
	assert.WithinDuration(t, later, token.ExpiresAt, time.Second)
}

func TestDeleteRefreshToken(t *testing.T) {
	store := setupTestStorage(t)
	user := createTestUser(t, store, "alice", "alice@example.com")

	saveTestToken(t, store, "token-1", user.ID, time.Now().Add(time.Hour))

	require.NoError(t, store.DeleteRefreshToken(context.Background(), "token-1"))

	_, err := store.GetRefreshToken(context.Background(), "token-1")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	// Deleting again reports not found; the handler treats that as success
	err = store.DeleteRefreshToken(context.Background(), "token-1")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestDeleteExpiredTokens(t *testing.T) {
	store := setupTestStorage(t)
	user := createTestUser(t, store, "alice", "alice@example.com")

	saveTestToken(t, store, "expired-1", user.ID, time.Now().Add(-2*time.Hour))
	saveTestToken(t, store, "expired-2", user.ID, time.Now().Add(-1*time.Minute))
	saveTestToken(t, store, "live", user.ID, time.Now().Add(time.Hour))

	count, err := store.DeleteExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.GetRefreshToken(context.Background(), "live")
	assert.NoError(t, err)
}

func TestRefreshTokens_CascadeOnUserDelete(t *testing.T) {
	store := setupTestStorage(t)
	user := createTestUser(t, store, "alice", "alice@example.com")

	saveTestToken(t, store, "token-1", user.ID, time.Now().Add(time.Hour))

	_, err := store.DB().Exec("DELETE FROM users WHERE id = ?", user.ID)
	require.NoError(t, err)

	_, err = store.GetRefreshToken(context.Background(), "token-1")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}
