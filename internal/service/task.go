package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

type TaskService struct {
	repo     repo.TaskRepository
	projects repo.ProjectRepository
}

func NewTaskService(repo repo.TaskRepository, projects repo.ProjectRepository) *TaskService {
	return &TaskService{repo: repo, projects: projects}
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	return s.repo.List(ctx, userID)
}

func (s *TaskService) GetStats(ctx context.Context, userID int64) (model.TaskStats, error) {
	return s.repo.GetStats(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return t, ErrNotFound
	}
	return t, err
}

// Create stores a new TODO task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int64, in model.TaskInput) (model.Task, error) {
	t, err := s.fromInput(ctx, userID, in) // Валидация входных данных
	if err != nil {
		return t, err
	}
	t.Status = model.TaskTodo

	created, err := s.repo.Create(ctx, t)
	// Проект могли удалить после checkProject
	if errors.Is(err, repo.ErrorNotFound) && in.ProjectID != nil {
		return created, validationf("project %d not found", *in.ProjectID)
	}
	if err != nil {
		return created, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// Update replaces every editable field. A status change must follow the
// transition table.
func (s *TaskService) Update(ctx context.Context, userID, id int64, in model.TaskInput) (model.Task, error) {
	if strings.TrimSpace(string(in.Status)) == "" {
		return model.Task{}, validationf("status is required")
	}
	if !in.Status.Valid() {
		return model.Task{}, validationf("unknown status %q", in.Status)
	}

	t, err := s.fromInput(ctx, userID, in)
	if err != nil {
		return t, err
	}

	// Проверяем переход статуса относительно текущего
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return current, err
	}
	if !current.Status.CanTransition(in.Status) {
		return current, validationf("cannot change status from %s to %s", current.Status, in.Status)
	}

	t.ID = id
	t.Status = in.Status
	if in.ProjectID == nil {
		t.ProjectID = current.ProjectID
	}

	// Запись проходит, только если статус не успел измениться
	updated, err := s.repo.Update(ctx, t, current.Status)
	switch {
	case errors.Is(err, repo.ErrorConflict):
		return s.lostUpdate(ctx, userID, id, current.Status, in.Status)
	case errors.Is(err, repo.ErrorNotFound) && t.ProjectID != nil:
		return updated, validationf("project %d not found", *t.ProjectID)
	}
	return updated, err
}

// lostUpdate explains why a guarded write matched no row: the task is gone,
// its new status forbids the move, or it simply changed under the caller.
func (s *TaskService) lostUpdate(ctx context.Context, userID, id int64, read, to model.TaskStatus) (model.Task, error) {
	latest, err := s.Get(ctx, userID, id)
	if err != nil {
		return latest, err
	}
	if !latest.Status.CanTransition(to) {
		return latest, validationf("cannot change status from %s to %s", latest.Status, to)
	}
	return latest, conflictf("task status changed from %s to %s, reload and retry", read, latest.Status)
}

// Delete removes a task once it has reached a terminal status.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if !current.Status.Terminal() {
		return validationf("cannot delete a task in status %s", current.Status)
	}

	err = s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *TaskService) fromInput(ctx context.Context, userID int64, in model.TaskInput) (model.Task, error) {
	if err := check(in); err != nil {
		return model.Task{}, err
	}

	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return model.Task{}, err
	}
	end, err := parseDate("endDate", in.EndDate)
	if err != nil {
		return model.Task{}, err
	}

	if in.ProjectID != nil {
		if err := s.checkProject(ctx, userID, *in.ProjectID); err != nil {
			return model.Task{}, err
		}
	}

	return model.Task{
		UserID:      userID,
		ProjectID:   in.ProjectID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func (s *TaskService) checkProject(ctx context.Context, userID, projectID int64) error {
	p, err := s.projects.Get(ctx, projectID)
	if errors.Is(err, repo.ErrorNotFound) || (err == nil && !p.HasMember(userID)) {
		return validationf("project %d not found", projectID)
	}
	return err
}
