package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, userID, id int64) (model.Task, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, userID int64) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t model.Task, from model.TaskStatus) (model.Task, error) {
	args := m.Called(ctx, t, from)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) GetStats(ctx context.Context, userID int64) (model.TaskStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.TaskStats), args.Error(1)
}

func (m *MockTaskRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p model.Project) (model.Project, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) Get(ctx context.Context, id int64) (model.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) ListVisible(ctx context.Context, userID int64) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, p model.Project) (model.Project, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) HasPending(ctx context.Context, projectID, toUserID int64) (bool, error) {
	args := m.Called(ctx, projectID, toUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) CreateRequest(ctx context.Context, r model.ShareRequest) (model.ShareRequest, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(model.ShareRequest), args.Error(1)
}

func (m *MockShareRepository) GetRequest(ctx context.Context, id int64) (model.ShareRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ShareRequest), args.Error(1)
}

// Resolve returns the locked row configured on the mock, runs check on it the
// way the real repository does and applies the status when check passes.
func (m *MockShareRepository) Resolve(ctx context.Context, id int64, status model.ShareStatus, check func(model.ShareRequest) error) (model.ShareRequest, error) {
	args := m.Called(ctx, id, status)
	current := args.Get(0).(model.ShareRequest)
	if err := args.Error(1); err != nil {
		return model.ShareRequest{}, err
	}
	if err := check(current); err != nil {
		return model.ShareRequest{}, err
	}
	current.Status = status
	return current, nil
}

func (m *MockShareRepository) ListPending(ctx context.Context, toUserID int64) ([]model.ShareRequest, error) {
	args := m.Called(ctx, toUserID)
	return args.Get(0).([]model.ShareRequest), args.Error(1)
}

func (m *MockShareRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(u model.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

func (m *MockTokens) Parse(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}
