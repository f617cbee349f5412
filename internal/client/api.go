package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// Client calls the REST API, attaching the session token when there is one.
type Client struct {
	baseURL string
	client  *http.Client
	session Session
}

func NewClient(baseURL string, session Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		session: session,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/login", creds, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/signup", creds, &resp)
	return resp, err
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, in model.ProfileUpdate) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%d", userID), in, &u)
	return u, err
}

func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks)
	return tasks, err
}

func (c *Client) TaskStats(ctx context.Context) (model.TaskStats, error) {
	var stats model.TaskStats
	err := c.do(ctx, http.MethodGet, "/api/tasks/stats", nil, &stats)
	return stats, err
}

func (c *Client) Task(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &t)
	return t, err
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", in, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in model.TaskInput) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", id), in, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects)
	return projects, err
}

func (c *Client) Project(ctx context.Context, id int64) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, &p)
	return p, err
}

func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodPost, "/api/projects", in, &p)
	return p, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in model.ProjectInput) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/projects/%d", id), in, &p)
	return p, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, nil)
}

func (c *Client) ShareProject(ctx context.Context, projectID, targetUserID int64) (model.ShareRequest, error) {
	var r model.ShareRequest
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/share", projectID),
		model.ShareInput{TargetUserID: targetUserID}, &r)
	return r, err
}

func (c *Client) ResolveShare(ctx context.Context, requestID int64, status model.ShareStatus) (model.ShareRequest, error) {
	var r model.ShareRequest
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/projects/share/%d", requestID),
		model.ResolveInput{Status: status}, &r)
	return r, err
}

func (c *Client) ShareRequests(ctx context.Context) ([]model.ShareRequest, error) {
	var requests []model.ShareRequest
	err := c.do(ctx, http.MethodGet, "/api/projects/share/requests", nil, &requests)
	return requests, err
}

func (c *Client) RemoveMember(ctx context.Context, projectID, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d/share/%d", projectID, userID), nil, nil)
}
