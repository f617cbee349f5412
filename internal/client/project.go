package client

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const msgTitleRequired = "Title is required"

// ProjectModel backs the project list and the share inbox. Mutations finish
// by reloading whatever list they affect.
type ProjectModel struct {
	api    *Client
	logger *zap.Logger

	mu          sync.Mutex
	title       string
	description string

	Projects Holder[[]model.Project]
	Requests Holder[[]model.ShareRequest]
}

func NewProjectModel(api *Client, logger *zap.Logger) *ProjectModel {
	return &ProjectModel{api: api, logger: logger}
}

func (m *ProjectModel) SetTitle(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = strings.TrimSpace(v)
}

func (m *ProjectModel) SetDescription(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.description = strings.TrimSpace(v)
}

func (m *ProjectModel) form() (model.ProjectInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := model.ProjectInput{Title: m.title}
	if m.description != "" {
		desc := m.description
		in.Description = &desc
	}
	return in, in.Title != ""
}

func (m *ProjectModel) clearForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title, m.description = "", ""
}

func (m *ProjectModel) LoadProjects(ctx context.Context) <-chan struct{} {
	return m.Projects.Run(ctx, "load projects", m.api.Projects)
}

func (m *ProjectModel) LoadShareRequests(ctx context.Context) <-chan struct{} {
	return m.Requests.Run(ctx, "load share requests", m.api.ShareRequests)
}

func (m *ProjectModel) CreateProject(ctx context.Context) <-chan struct{} {
	in, ok := m.form()
	if !ok {
		m.Projects.Fail(msgTitleRequired)
		return closed()
	}
	return m.Projects.Run(ctx, "create project", func(ctx context.Context) ([]model.Project, error) {
		p, err := m.api.CreateProject(ctx, in)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("project created", zap.Int64("project_id", p.ID))
		m.clearForm()
		return m.api.Projects(ctx)
	})
}

func (m *ProjectModel) UpdateProject(ctx context.Context, id int64) <-chan struct{} {
	in, ok := m.form()
	if !ok {
		m.Projects.Fail(msgTitleRequired)
		return closed()
	}
	return m.Projects.Run(ctx, "update project", func(ctx context.Context) ([]model.Project, error) {
		if _, err := m.api.UpdateProject(ctx, id, in); err != nil {
			return nil, err
		}
		m.clearForm()
		return m.api.Projects(ctx)
	})
}

func (m *ProjectModel) DeleteProject(ctx context.Context, id int64) <-chan struct{} {
	return m.Projects.Run(ctx, "delete project", func(ctx context.Context) ([]model.Project, error) {
		if err := m.api.DeleteProject(ctx, id); err != nil {
			return nil, err
		}
		return m.api.Projects(ctx)
	})
}

// ShareProject invites targetUserID and then reloads the inbox.
func (m *ProjectModel) ShareProject(ctx context.Context, projectID, targetUserID int64) <-chan struct{} {
	return m.Requests.Run(ctx, "share project", func(ctx context.Context) ([]model.ShareRequest, error) {
		if _, err := m.api.ShareProject(ctx, projectID, targetUserID); err != nil {
			return nil, err
		}
		return m.api.ShareRequests(ctx)
	})
}

// HandleShareRequest accepts or declines an invitation. Both the inbox and
// the project list are reloaded since accepting adds a visible project.
func (m *ProjectModel) HandleShareRequest(ctx context.Context, requestID int64, accept bool) <-chan struct{} {
	status := model.ShareDeclined
	if accept {
		status = model.ShareAccepted
	}
	var reload <-chan struct{}
	inbox := m.Requests.Run(ctx, "handle share request", func(ctx context.Context) ([]model.ShareRequest, error) {
		if _, err := m.api.ResolveShare(ctx, requestID, status); err != nil {
			return nil, err
		}
		reload = m.LoadProjects(ctx)
		return m.api.ShareRequests(ctx)
	})
	return waitThen(inbox, func() <-chan struct{} { return reload })
}

func (m *ProjectModel) RemoveMember(ctx context.Context, projectID, userID int64) <-chan struct{} {
	return m.Projects.Run(ctx, "remove member", func(ctx context.Context) ([]model.Project, error) {
		if err := m.api.RemoveMember(ctx, projectID, userID); err != nil {
			return nil, err
		}
		return m.api.Projects(ctx)
	})
}

// waitThen closes after first has closed and then, if next returns a
// channel, after that one too.
func waitThen(first <-chan struct{}, next func() <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-first
		if ch := next(); ch != nil {
			<-ch
		}
	}()
	return done
}
