package repo

import (
	"context"
	"time"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

// TaskRepository stores tasks. Every read and write except ExpireOverdue is
// scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, userID, id int64) (model.Task, error)
	List(ctx context.Context, userID int64) ([]model.Task, error)
	Update(ctx context.Context, t model.Task, from model.TaskStatus) (model.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	GetStats(ctx context.Context, userID int64) (model.TaskStats, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ProjectRepository stores projects. Reads return the project with its
// owner, tasks and members filled in.
type ProjectRepository interface {
	Create(ctx context.Context, p model.Project) (model.Project, error)
	Get(ctx context.Context, id int64) (model.Project, error)
	ListVisible(ctx context.Context, userID int64) ([]model.Project, error)
	Update(ctx context.Context, p model.Project) (model.Project, error)
	Delete(ctx context.Context, id int64) error
}

// ShareRepository stores project memberships and share requests.
type ShareRepository interface {
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
	HasPending(ctx context.Context, projectID, toUserID int64) (bool, error)
	CreateRequest(ctx context.Context, r model.ShareRequest) (model.ShareRequest, error)
	GetRequest(ctx context.Context, id int64) (model.ShareRequest, error)
	Resolve(ctx context.Context, id int64, status model.ShareStatus, check func(model.ShareRequest) error) (model.ShareRequest, error)
	ListPending(ctx context.Context, toUserID int64) ([]model.ShareRequest, error)
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
}
