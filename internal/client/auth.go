package client

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

// AuthModel backs the login and signup screens. A successful call stores
// the returned token in the session.
type AuthModel struct {
	api     *Client
	session Session
	logger  *zap.Logger

	mu       sync.Mutex
	username string
	password string

	LoginState  Holder[model.AuthResponse]
	SignupState Holder[model.AuthResponse]
}

func NewAuthModel(api *Client, session Session, logger *zap.Logger) *AuthModel {
	return &AuthModel{api: api, session: session, logger: logger}
}

func (m *AuthModel) SetUsername(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username = strings.TrimSpace(v)
}

func (m *AuthModel) SetPassword(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = v
}

func (m *AuthModel) credentials() model.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Credentials{Username: m.username, Password: m.password}
}

func (m *AuthModel) Login(ctx context.Context) <-chan struct{} {
	creds := m.credentials()
	return m.LoginState.Run(ctx, "login", func(ctx context.Context) (model.AuthResponse, error) {
		return m.authenticate(ctx, creds, m.api.Login)
	})
}

func (m *AuthModel) Signup(ctx context.Context) <-chan struct{} {
	creds := m.credentials()
	return m.SignupState.Run(ctx, "signup", func(ctx context.Context) (model.AuthResponse, error) {
		return m.authenticate(ctx, creds, m.api.Signup)
	})
}

func (m *AuthModel) authenticate(
	ctx context.Context,
	creds model.Credentials,
	call func(context.Context, model.Credentials) (model.AuthResponse, error),
) (model.AuthResponse, error) {
	resp, err := call(ctx, creds)
	if err != nil {
		m.logger.Debug("authentication failed", zap.String("username", creds.Username), zap.Error(err))
		return model.AuthResponse{}, err
	}
	if err := m.session.Save(resp); err != nil {
		return model.AuthResponse{}, err
	}
	m.logger.Info("logged in", zap.Int64("user_id", resp.ID), zap.String("username", resp.Username))
	return resp, nil
}

// Logout forgets the session and resets both screens.
func (m *AuthModel) Logout() error {
	m.LoginState.Reset()
	m.SignupState.Reset()
	return m.session.Clear()
}
