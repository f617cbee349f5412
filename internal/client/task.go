package client

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const msgTaskFieldsRequired = "All fields are required"

// TaskModel backs the dashboard, task list, task form and task detail
// screens. Every successful mutation reloads the list and the dashboard.
type TaskModel struct {
	api    *Client
	logger *zap.Logger

	mu          sync.Mutex
	title       string
	description string
	startDate   string
	endDate     string

	Dashboard   Holder[model.TaskStats]
	List        Holder[[]model.Task]
	Detail      Holder[model.Task]
	AddState    Holder[model.Task]
	UpdateState Holder[model.Task]
	DeleteState Holder[struct{}]
}

func NewTaskModel(api *Client, logger *zap.Logger) *TaskModel {
	return &TaskModel{api: api, logger: logger}
}

func (m *TaskModel) SetTitle(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = strings.TrimSpace(v)
}

func (m *TaskModel) SetDescription(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.description = strings.TrimSpace(v)
}

func (m *TaskModel) SetStartDate(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startDate = strings.TrimSpace(v)
}

func (m *TaskModel) SetEndDate(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endDate = strings.TrimSpace(v)
}

// form returns the current fields, or false if any of them is blank.
func (m *TaskModel) form() (model.TaskInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := model.TaskInput{
		Title:       m.title,
		Description: m.description,
		StartDate:   m.startDate,
		EndDate:     m.endDate,
	}
	ok := in.Title != "" && in.Description != "" && in.StartDate != "" && in.EndDate != ""
	return in, ok
}

func (m *TaskModel) clearForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title, m.description, m.startDate, m.endDate = "", "", "", ""
}

func (m *TaskModel) LoadDashboard(ctx context.Context) <-chan struct{} {
	return m.Dashboard.Run(ctx, "load dashboard", m.api.TaskStats)
}

func (m *TaskModel) LoadTasks(ctx context.Context) <-chan struct{} {
	return m.List.Run(ctx, "load tasks", m.api.Tasks)
}

func (m *TaskModel) LoadTask(ctx context.Context, id int64) <-chan struct{} {
	return m.Detail.Run(ctx, "load task", func(ctx context.Context) (model.Task, error) {
		return m.api.Task(ctx, id)
	})
}

// Refresh reloads the list and the dashboard. The channel closes when both
// are done.
func (m *TaskModel) Refresh(ctx context.Context) <-chan struct{} {
	return all(m.LoadTasks(ctx), m.LoadDashboard(ctx))
}

// AddTask creates a task from the form fields, optionally inside a project.
func (m *TaskModel) AddTask(ctx context.Context, projectID *int64) <-chan struct{} {
	in, ok := m.form()
	if !ok {
		m.AddState.Fail(msgTaskFieldsRequired)
		return closed()
	}
	in.ProjectID = projectID

	return m.AddState.Run(ctx, "add task", func(ctx context.Context) (model.Task, error) {
		t, err := m.api.CreateTask(ctx, in)
		if err != nil {
			return model.Task{}, err
		}
		m.logger.Debug("task added", zap.Int64("task_id", t.ID))
		m.clearForm()
		<-m.Refresh(ctx)
		return t, nil
	})
}

// UpdateTask saves the form fields and status to task id.
func (m *TaskModel) UpdateTask(ctx context.Context, id int64, status model.TaskStatus) <-chan struct{} {
	in, ok := m.form()
	if !ok || strings.TrimSpace(string(status)) == "" {
		m.UpdateState.Fail(msgTaskFieldsRequired)
		return closed()
	}
	in.Status = status

	return m.UpdateState.Run(ctx, "update task", func(ctx context.Context) (model.Task, error) {
		t, err := m.api.UpdateTask(ctx, id, in)
		if err != nil {
			return model.Task{}, err
		}
		<-m.Refresh(ctx)
		return t, nil
	})
}

func (m *TaskModel) DeleteTask(ctx context.Context, id int64) <-chan struct{} {
	return m.DeleteState.Run(ctx, "delete task", func(ctx context.Context) (struct{}, error) {
		if err := m.api.DeleteTask(ctx, id); err != nil {
			return struct{}{}, err
		}
		<-m.Refresh(ctx)
		return struct{}{}, nil
	})
}

// all closes once every input channel has closed.
func all(chans ...<-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, ch := range chans {
			<-ch
		}
	}()
	return done
}
