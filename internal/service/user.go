package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

type UserService struct {
	repo repo.UserRepository
	cost int
}

func NewUserService(repo repo.UserRepository, bcryptCost int) *UserService {
	return &UserService{repo: repo, cost: bcryptCost}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return u, ErrNotFound
	}
	return u, err
}

// UpdateProfile lets a user change their own username and/or password.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, id int64, in model.ProfileUpdate) (model.User, error) {
	if callerID != id {
		return model.User{}, ErrForbidden
	}

	var username, password string
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
	}
	if in.Password != nil {
		password = *in.Password
	}
	if username == "" && strings.TrimSpace(password) == "" {
		return model.User{}, validationf("username or password is required")
	}
	if err := checkPasswordLength(password); err != nil {
		return model.User{}, err
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return u, err
	}

	if username != "" && username != u.Username {
		_, err := s.repo.GetByUsername(ctx, username)
		if err == nil {
			return model.User{}, conflictf("username already taken")
		}
		if !errors.Is(err, repo.ErrorNotFound) {
			return model.User{}, err
		}
		u.Username = username
	}

	if strings.TrimSpace(password) != "" {
		hash, err := hashPassword(password, s.cost)
		if err != nil {
			return model.User{}, err
		}
		u.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, u)
	switch {
	case errors.Is(err, repo.ErrorConflict):
		return updated, conflictf("username already taken")
	case errors.Is(err, repo.ErrorNotFound):
		return updated, ErrNotFound
	}
	return updated, err
}
