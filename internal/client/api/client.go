package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskwire/taskwire/pkg/api"
)

// ErrUnauthorized is returned for any 401 response. The session layer
// keys its refresh-and-retry logic off this sentinel.
var ErrUnauthorized = errors.New("unauthorized")

// Client is the HTTP transport to the server. It is deliberately dumb:
// every call takes whatever token it needs explicitly, and token
// caching/refreshing lives in the session package.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client. Every outbound call is bounded by
// the client timeout so a dead server fails closed instead of hanging.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Register creates a new account and returns the profile plus token pair.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/refresh-token", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout invalidates a refresh token server-side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", "", req, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ListTasks fetches all tasks of the authenticated user.
func (c *Client) ListTasks(ctx context.Context, accessToken string) ([]api.Task, error) {
	var resp []api.Task
	if err := c.doRequest(ctx, http.MethodGet, "/tasks", accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, accessToken string, id int64) (*api.Task, error) {
	var resp api.Task
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, accessToken string, req api.CreateTaskRequest) (*api.Task, error) {
	var resp api.Task
	if err := c.doRequest(ctx, http.MethodPost, "/tasks", accessToken, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, accessToken string, id int64, req api.UpdateTaskRequest) (*api.Task, error) {
	var resp api.Task
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), accessToken, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, accessToken string, id int64) error {
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), accessToken, nil, nil)
}

// doRequest performs one HTTP exchange. A non-empty accessToken is sent
// as a bearer credential. 401 responses map to ErrUnauthorized.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil && errResp.Message != "" {
			if resp.StatusCode == http.StatusUnauthorized {
				return fmt.Errorf("%w: %s", ErrUnauthorized, errResp.Message)
			}
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
