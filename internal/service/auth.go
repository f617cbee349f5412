package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

type TokenIssuer interface {
	Issue(u model.User) (string, error)
	Parse(token string) (int64, error)
}

type AuthService struct {
	users  repo.UserRepository
	tokens TokenIssuer
	cost   int
}

func NewAuthService(users repo.UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcryptCost}
}

func (s *AuthService) Signup(ctx context.Context, in model.Credentials) (model.AuthResponse, error) {
	if err := check(in); err != nil {
		return model.AuthResponse{}, err
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return model.AuthResponse{}, err
	}
	username := strings.TrimSpace(in.Username)

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return model.AuthResponse{}, conflictf("username already taken")
	} else if !errors.Is(err, repo.ErrorNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return model.AuthResponse{}, err
	}

	u, err := s.users.Create(ctx, model.User{Username: username, PasswordHash: hash})
	if errors.Is(err, repo.ErrorConflict) {
		return model.AuthResponse{}, conflictf("username already taken")
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}
	return s.respond(u)
}

// Login checks credentials. Unknown users and wrong passwords fail alike.
func (s *AuthService) Login(ctx context.Context, in model.Credentials) (model.AuthResponse, error) {
	if err := check(in); err != nil {
		return model.AuthResponse{}, err
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repo.ErrorNotFound) {
		return model.AuthResponse{}, ErrUnauthenticated
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return model.AuthResponse{}, ErrUnauthenticated
	}
	return s.respond(u)
}

// Authenticate resolves a bearer token to its user. It is called on every
// protected request; nothing is cached.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return model.User{}, ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.User{}, ErrUnauthenticated
	}
	return u, err
}

func (s *AuthService) respond(u model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return model.AuthResponse{}, err
	}

	resp := model.AuthResponse{ID: u.ID, Username: u.Username, Token: token}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	return resp, nil
}

// bcrypt only looks at the first 72 bytes and refuses anything longer.
const maxPasswordBytes = 72

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return validationf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validationf("password must be at most %d bytes", maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
