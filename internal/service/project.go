package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

type ProjectService struct {
	repo repo.ProjectRepository
}

func NewProjectService(repo repo.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns the projects userID owns or has been shared.
func (s *ProjectService) List(ctx context.Context, userID int64) ([]model.Project, error) {
	return s.repo.ListVisible(ctx, userID)
}

// Get hides projects the caller cannot see behind ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, userID, id int64) (model.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) || (err == nil && !p.HasMember(userID)) {
		return model.Project{}, ErrNotFound
	}
	return p, err
}

func (s *ProjectService) Create(ctx context.Context, userID int64, in model.ProjectInput) (model.Project, error) {
	if err := check(in); err != nil {
		return model.Project{}, err
	}
	return s.repo.Create(ctx, model.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: normalizeDescription(in.Description),
		OwnerID:     userID,
	})
}

// Update is open to the owner and to every member.
func (s *ProjectService) Update(ctx context.Context, userID, id int64, in model.ProjectInput) (model.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) || (err == nil && !p.HasMember(userID)) {
		return model.Project{}, ErrForbidden
	}
	if err != nil {
		return p, err
	}
	if err := check(in); err != nil {
		return p, err
	}

	p.Title = strings.TrimSpace(in.Title)
	// an omitted description is kept, an explicit blank one clears it
	if in.Description != nil {
		p.Description = normalizeDescription(in.Description)
	}
	return s.repo.Update(ctx, p)
}

// Delete is owner-only; the repository detaches tasks and drops sharing rows
// in the same transaction.
func (s *ProjectService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return ErrForbidden
	}
	return err
}

// owned returns the project when userID owns it and ErrForbidden otherwise.
func (s *ProjectService) owned(ctx context.Context, userID, id int64) (model.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) || (err == nil && p.OwnerID != userID) {
		return model.Project{}, ErrForbidden
	}
	return p, err
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
