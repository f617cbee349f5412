package service

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

// ShareService runs the share request workflow: an owner proposes, the
// addressed user accepts or declines exactly once.
type ShareService struct {
	projects *ProjectService
	shares   repo.ShareRepository
	users    repo.UserRepository
}

func NewShareService(projects *ProjectService, shares repo.ShareRepository, users repo.UserRepository) *ShareService {
	return &ShareService{projects: projects, shares: shares, users: users}
}

func (s *ShareService) Share(ctx context.Context, ownerID, projectID int64, in model.ShareInput) (model.ShareRequest, error) {
	if _, err := s.projects.owned(ctx, ownerID, projectID); err != nil {
		return model.ShareRequest{}, err
	}
	if err := check(in); err != nil {
		return model.ShareRequest{}, validationf("targetUserId is required")
	}
	if in.TargetUserID == ownerID {
		return model.ShareRequest{}, validationf("cannot share a project with its owner")
	}

	if _, err := s.users.GetByID(ctx, in.TargetUserID); err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return model.ShareRequest{}, ErrNotFound
		}
		return model.ShareRequest{}, err
	}

	member, err := s.shares.IsMember(ctx, projectID, in.TargetUserID)
	if err != nil {
		return model.ShareRequest{}, err
	}
	if member {
		return model.ShareRequest{}, conflictf("project is already shared with this user")
	}

	pending, err := s.shares.HasPending(ctx, projectID, in.TargetUserID)
	if err != nil {
		return model.ShareRequest{}, err
	}
	if pending {
		return model.ShareRequest{}, conflictf("a pending share request already exists")
	}

	req, err := s.shares.CreateRequest(ctx, model.ShareRequest{
		ProjectID:  projectID,
		FromUserID: ownerID,
		ToUserID:   in.TargetUserID,
		Status:     model.SharePending,
	})
	if errors.Is(err, repo.ErrorConflict) {
		return req, conflictf("a pending share request already exists")
	}
	return req, err
}

// Resolve accepts or declines a pending request addressed to callerID.
func (s *ShareService) Resolve(ctx context.Context, callerID, requestID int64, in model.ResolveInput) (model.ShareRequest, error) {
	if !in.Status.Resolution() {
		return model.ShareRequest{}, validationf("invalid status, must be ACCEPTED or DECLINED")
	}

	req, err := s.shares.Resolve(ctx, requestID, in.Status, func(current model.ShareRequest) error {
		if current.ToUserID != callerID {
			return ErrForbidden
		}
		if current.Status != model.SharePending {
			return validationf("this request has already been handled")
		}
		return nil
	})
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		return req, ErrForbidden
	case errors.Is(err, repo.ErrorConflict):
		return req, conflictf("project is already shared with this user")
	}
	return req, err
}

func (s *ShareService) Pending(ctx context.Context, userID int64) ([]model.ShareRequest, error) {
	return s.shares.ListPending(ctx, userID)
}

// RemoveMember revokes a membership; share request history is kept.
func (s *ShareService) RemoveMember(ctx context.Context, ownerID, projectID, userID int64) error {
	if _, err := s.projects.owned(ctx, ownerID, projectID); err != nil {
		return err
	}
	err := s.shares.RemoveMember(ctx, projectID, userID)
	if errors.Is(err, repo.ErrorNotFound) {
		return ErrNotFound
	}
	return err
}
