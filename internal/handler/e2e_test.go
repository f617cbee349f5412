package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/taskshare-api/internal/auth"
	"github.com/BuzzLyutic/taskshare-api/internal/metrics"
	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
	"github.com/BuzzLyutic/taskshare-api/internal/service"
	"github.com/BuzzLyutic/taskshare-api/internal/testutil"
)

func setupE2EServer(t *testing.T) (*httptest.Server, func()) {
	pool, cleanup := testutil.SetupTestDB(t)
	testutil.TruncateTables(t, pool)

	users := repo.NewUserRepo(pool)
	tasks := repo.NewTaskRepo(pool)
	projects := repo.NewProjectRepo(pool)
	shares := repo.NewShareRepo(pool)

	projectService := service.NewProjectService(projects)
	tokens := auth.NewTokens("test-secret", "taskshare-api", time.Hour)

	r := NewRouter(Deps{
		Auth:     service.NewAuthService(users, tokens, bcrypt.MinCost),
		Users:    service.NewUserService(users, bcrypt.MinCost),
		Tasks:    service.NewTaskService(tasks, projects),
		Projects: projectService,
		Shares:   service.NewShareService(projectService, shares, users),
		DB:       pool,
		Metrics:  metrics.New(),
		Logger:   zap.NewNop(),

		ExposeMetrics: true,
	})

	server := httptest.NewServer(r)
	return server, func() {
		server.Close()
		cleanup()
	}
}

// api issues a JSON request against srv, decoding the response into out
// when out is non-nil.
func api(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func signup(t *testing.T, srv *httptest.Server, username string) model.AuthResponse {
	t.Helper()
	var resp model.AuthResponse
	code := api(t, srv, http.MethodPost, "/api/signup", "",
		map[string]string{"username": username, "password": "secret1"}, &resp)
	require.Equal(t, http.StatusCreated, code)
	return resp
}

func TestE2E_SignupTaskStats(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	signup(t, srv, "alice")

	var login model.AuthResponse
	code := api(t, srv, http.MethodPost, "/api/login", "",
		map[string]string{"username": "alice", "password": "secret1"}, &login)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "alice", login.Username)
	assert.Equal(t, "", login.Email)

	var task model.Task
	code = api(t, srv, http.MethodPost, "/api/tasks", login.Token, map[string]string{
		"title": "Buy milk", "description": "2%", "startDate": "2025-01-01", "endDate": "2025-01-02",
	}, &task)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, model.TaskTodo, task.Status)

	var stats map[string]int
	code = api(t, srv, http.MethodGet, "/api/tasks/stats", login.Token, nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]int{
		"totalTasks":             1,
		"TodoQuantity":           1,
		"completedTasksQuantity": 0,
		"cancelledTasksQuantity": 0,
		"expiredTasksQuantity":   0,
	}, stats)
}

func TestE2E_ShareAcceptList(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	owner := signup(t, srv, "owner")
	bob := signup(t, srv, "bob")

	var p model.Project
	require.Equal(t, http.StatusCreated,
		api(t, srv, http.MethodPost, "/api/projects", owner.Token, map[string]string{"title": "P"}, &p))

	var req model.ShareRequest
	require.Equal(t, http.StatusCreated,
		api(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/share", p.ID), owner.Token,
			map[string]int64{"targetUserId": bob.ID}, &req))
	assert.Equal(t, model.SharePending, req.Status)

	var errBody map[string]string
	assert.Equal(t, http.StatusConflict,
		api(t, srv, http.MethodPost, fmt.Sprintf("/api/projects/%d/share", p.ID), owner.Token,
			map[string]int64{"targetUserId": bob.ID}, &errBody))
	assert.NotEmpty(t, errBody["error"])

	var pending []model.ShareRequest
	require.Equal(t, http.StatusOK, api(t, srv, http.MethodGet, "/api/projects/share/requests", bob.Token, nil, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)

	assert.Equal(t, http.StatusForbidden,
		api(t, srv, http.MethodPatch, fmt.Sprintf("/api/projects/share/%d", req.ID), owner.Token,
			map[string]string{"status": "ACCEPTED"}, nil))

	var resolved model.ShareRequest
	require.Equal(t, http.StatusOK,
		api(t, srv, http.MethodPatch, fmt.Sprintf("/api/projects/share/%d", req.ID), bob.Token,
			map[string]string{"status": "ACCEPTED"}, &resolved))
	assert.Equal(t, model.ShareAccepted, resolved.Status)

	assert.Equal(t, http.StatusBadRequest,
		api(t, srv, http.MethodPatch, fmt.Sprintf("/api/projects/share/%d", req.ID), bob.Token,
			map[string]string{"status": "DECLINED"}, nil))

	var visible []model.Project
	require.Equal(t, http.StatusOK, api(t, srv, http.MethodGet, "/api/projects", bob.Token, nil, &visible))
	require.Len(t, visible, 1)
	assert.Equal(t, p.ID, visible[0].ID)
	require.Len(t, visible[0].SharedWith, 1)
	assert.Equal(t, bob.ID, visible[0].SharedWith[0].UserID)

	// members may edit but not delete
	assert.Equal(t, http.StatusOK,
		api(t, srv, http.MethodPatch, fmt.Sprintf("/api/projects/%d", p.ID), bob.Token, map[string]string{"title": "P2"}, nil))
	assert.Equal(t, http.StatusForbidden,
		api(t, srv, http.MethodDelete, fmt.Sprintf("/api/projects/%d", p.ID), bob.Token, nil, nil))
}

func TestE2E_TaskLifecycle(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	alice := signup(t, srv, "alice")
	bob := signup(t, srv, "bob")

	body := map[string]string{
		"title": "Write report", "description": "Q1", "startDate": "2025-01-01", "endDate": "2099-01-02",
	}
	var task model.Task
	require.Equal(t, http.StatusCreated, api(t, srv, http.MethodPost, "/api/tasks", alice.Token, body, &task))
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	t.Run("blank fields rejected", func(t *testing.T) {
		var errBody map[string]string
		code := api(t, srv, http.MethodPost, "/api/tasks", alice.Token, map[string]string{"title": "x"}, &errBody)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, errBody["error"], "required")
	})

	t.Run("other users get 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, api(t, srv, http.MethodGet, path, bob.Token, nil, nil))
	})

	t.Run("no token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api(t, srv, http.MethodGet, "/api/tasks", "", nil, nil))
	})

	t.Run("cannot delete open task", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, api(t, srv, http.MethodDelete, path, alice.Token, nil, nil))
	})

	t.Run("illegal transition names both statuses", func(t *testing.T) {
		update := map[string]string{
			"title": "Write report", "description": "Q1", "startDate": "2025-01-01", "endDate": "2099-01-02",
			"status": "CANCELLED",
		}
		require.Equal(t, http.StatusOK, api(t, srv, http.MethodPatch, path, alice.Token, update, nil))

		update["status"] = "TODO"
		var errBody map[string]string
		assert.Equal(t, http.StatusBadRequest, api(t, srv, http.MethodPatch, path, alice.Token, update, &errBody))
		assert.Equal(t, "cannot change status from CANCELLED to TODO", errBody["error"])
	})

	t.Run("terminal task deletes", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, api(t, srv, http.MethodDelete, path, alice.Token, nil, nil))
		assert.Equal(t, http.StatusNotFound, api(t, srv, http.MethodGet, path, alice.Token, nil, nil))
	})
}

func TestE2E_ProjectDeleteDetachesTasks(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	owner := signup(t, srv, "owner")

	var p model.Project
	require.Equal(t, http.StatusCreated,
		api(t, srv, http.MethodPost, "/api/projects", owner.Token, map[string]string{"title": "P"}, &p))

	var task model.Task
	require.Equal(t, http.StatusCreated, api(t, srv, http.MethodPost, "/api/tasks", owner.Token, map[string]any{
		"title": "t", "description": "d", "startDate": "2025-01-01", "endDate": "2099-01-02", "projectId": p.ID,
	}, &task))
	require.NotNil(t, task.ProjectID)

	require.Equal(t, http.StatusNoContent,
		api(t, srv, http.MethodDelete, fmt.Sprintf("/api/projects/%d", p.ID), owner.Token, nil, nil))

	var tasks []model.Task
	require.Equal(t, http.StatusOK, api(t, srv, http.MethodGet, "/api/tasks", owner.Token, nil, &tasks))
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].ProjectID)
}

func TestE2E_Users(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	alice := signup(t, srv, "alice")
	bob := signup(t, srv, "bob")

	assert.Equal(t, http.StatusConflict, api(t, srv, http.MethodPost, "/api/signup", "",
		map[string]string{"username": "alice", "password": "x"}, nil))

	var list []map[string]any
	require.Equal(t, http.StatusOK, api(t, srv, http.MethodGet, "/api/users", alice.Token, nil, &list))
	assert.Len(t, list, 2)
	for _, u := range list {
		assert.NotContains(t, u, "passwordHash")
	}

	assert.Equal(t, http.StatusForbidden, api(t, srv, http.MethodPatch, fmt.Sprintf("/api/users/%d", bob.ID),
		alice.Token, map[string]string{"username": "mallory"}, nil))
	assert.Equal(t, http.StatusConflict, api(t, srv, http.MethodPatch, fmt.Sprintf("/api/users/%d", alice.ID),
		alice.Token, map[string]string{"username": "bob"}, nil))

	require.Equal(t, http.StatusOK, api(t, srv, http.MethodPatch, fmt.Sprintf("/api/users/%d", alice.ID),
		alice.Token, map[string]string{"password": "newpass"}, nil))
	assert.Equal(t, http.StatusUnauthorized, api(t, srv, http.MethodPost, "/api/login", "",
		map[string]string{"username": "alice", "password": "secret1"}, nil))
	assert.Equal(t, http.StatusOK, api(t, srv, http.MethodPost, "/api/login", "",
		map[string]string{"username": "alice", "password": "newpass"}, nil))
}

func TestE2E_HealthAndMetrics(t *testing.T) {
	srv, cleanup := setupE2EServer(t)
	defer cleanup()

	var health map[string]string
	require.Equal(t, http.StatusOK, api(t, srv, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
