package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	clientapi "github.com/taskwire/taskwire/internal/client/api"
	"github.com/taskwire/taskwire/internal/client/storage"
	"github.com/taskwire/taskwire/pkg/api"
)

// ErrNotAuthenticated is returned when an operation requires a session
// but no tokens are stored locally.
var ErrNotAuthenticated = errors.New("not authenticated, please login first")

// ErrSessionExpired is returned when the stored session could not be
// refreshed and was cleared. The user has to log in again.
var ErrSessionExpired = errors.New("session expired, please login again")

// Manager wraps the API client with token handling: it attaches the
// cached access token to every call and transparently refreshes it once
// when the server answers 401. Concurrent callers that hit 401 at the
// same time share a single refresh instead of racing: refreshMu
// serializes refreshes, and a caller that waited its turn reuses the
// token the winner stored instead of hitting the server again.
type Manager struct {
	client *clientapi.Client
	store  storage.AuthStorage

	refreshMu sync.Mutex
}

// NewManager creates a session manager over the given transport and
// token cache.
func NewManager(client *clientapi.Client, store storage.AuthStorage) *Manager {
	return &Manager{
		client: client,
		store:  store,
	}
}

// Register creates a new account and persists the issued session.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*api.AuthResponse, error) {
	resp, err := m.client.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if err := m.saveSession(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Login authenticates and persists the issued session.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	resp, err := m.client.Login(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if err := m.saveSession(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout invalidates the refresh token server-side and drops the local
// session. The local session is cleared even if the server call fails,
// so logout always succeeds from the user's point of view.
func (m *Manager) Logout(ctx context.Context) error {
	auth, err := m.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	serverErr := m.client.Logout(ctx, auth.RefreshToken)

	if err := m.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return serverErr
}

// Current returns the locally stored session without contacting the
// server. Returns ErrNotAuthenticated if none is stored.
func (m *Manager) Current(ctx context.Context) (*storage.AuthData, error) {
	auth, err := m.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return auth, nil
}

// Check validates the stored session against the server. It probes with
// a cheap authenticated call and lets the usual refresh path repair an
// expired access token. Used on client startup.
func (m *Manager) Check(ctx context.Context) (*storage.AuthData, error) {
	if _, err := m.Current(ctx); err != nil {
		return nil, err
	}

	if _, err := m.ListTasks(ctx); err != nil {
		return nil, err
	}

	// The probe may have rotated the access token.
	return m.Current(ctx)
}

// ListTasks fetches the user's tasks.
func (m *Manager) ListTasks(ctx context.Context) ([]api.Task, error) {
	var tasks []api.Task
	err := m.withAuth(ctx, func(token string) error {
		var err error
		tasks, err = m.client.ListTasks(ctx, token)
		return err
	})
	return tasks, err
}

// GetTask fetches a single task.
func (m *Manager) GetTask(ctx context.Context, id int64) (*api.Task, error) {
	var task *api.Task
	err := m.withAuth(ctx, func(token string) error {
		var err error
		task, err = m.client.GetTask(ctx, token, id)
		return err
	})
	return task, err
}

// CreateTask creates a new task.
func (m *Manager) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error) {
	var task *api.Task
	err := m.withAuth(ctx, func(token string) error {
		var err error
		task, err = m.client.CreateTask(ctx, token, req)
		return err
	})
	return task, err
}

// UpdateTask updates an existing task.
func (m *Manager) UpdateTask(ctx context.Context, id int64, req api.UpdateTaskRequest) (*api.Task, error) {
	var task *api.Task
	err := m.withAuth(ctx, func(token string) error {
		var err error
		task, err = m.client.UpdateTask(ctx, token, id, req)
		return err
	})
	return task, err
}

// DeleteTask deletes a task.
func (m *Manager) DeleteTask(ctx context.Context, id int64) error {
	return m.withAuth(ctx, func(token string) error {
		return m.client.DeleteTask(ctx, token, id)
	})
}

// withAuth runs call with the cached access token and, on a 401,
// refreshes the token and retries exactly once. Any 401 on the retried
// call is returned as-is; there is never a second refresh per call.
func (m *Manager) withAuth(ctx context.Context, call func(accessToken string) error) error {
	auth, err := m.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return ErrNotAuthenticated
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	err = call(auth.AccessToken)
	if !errors.Is(err, clientapi.ErrUnauthorized) {
		return err
	}

	newToken, err := m.refreshAccessToken(ctx, auth.AccessToken)
	if err != nil {
		return err
	}

	return call(newToken)
}

// refreshAccessToken obtains a fresh access token. On refresh failure
// the local session is cleared so the next operation reports
// ErrNotAuthenticated.
func (m *Manager) refreshAccessToken(ctx context.Context, staleToken string) (string, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	auth, err := m.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	// Someone else already refreshed while we waited for the lock.
	if auth.AccessToken != staleToken {
		return auth.AccessToken, nil
	}

	resp, err := m.client.Refresh(ctx, auth.RefreshToken)
	if err != nil {
		if delErr := m.store.DeleteAuth(ctx); delErr != nil {
			return "", fmt.Errorf("failed to clear session: %w", delErr)
		}
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	auth.AccessToken = resp.AccessToken
	auth.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix()
	if err := m.store.SaveAuth(ctx, auth); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return resp.AccessToken, nil
}

// saveSession persists the token pair returned by register or login.
func (m *Manager) saveSession(ctx context.Context, resp *api.AuthResponse) error {
	auth := &storage.AuthData{
		UserID:       resp.User.ID,
		Username:     resp.User.Username,
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	}
	if err := m.store.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
