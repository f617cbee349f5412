package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

var errNotLoggedIn = errors.New("user not logged in")

// ProfileModel backs the profile edit screen. Blank fields are left
// unchanged on the server.
type ProfileModel struct {
	api     *Client
	session Session
	logger  *zap.Logger

	mu       sync.Mutex
	username string
	password string
	confirm  string

	UpdateState Holder[model.User]
}

func NewProfileModel(api *Client, session Session, logger *zap.Logger) *ProfileModel {
	return &ProfileModel{api: api, session: session, logger: logger}
}

func (m *ProfileModel) SetUsername(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username = strings.TrimSpace(v)
}

func (m *ProfileModel) SetPassword(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = strings.TrimSpace(v)
}

func (m *ProfileModel) SetConfirmPassword(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirm = strings.TrimSpace(v)
}

// Update checks the form locally and only sends a request when it passes.
func (m *ProfileModel) Update(ctx context.Context) <-chan struct{} {
	m.mu.Lock()
	username, password, confirm := m.username, m.password, m.confirm
	m.mu.Unlock()

	if msg := checkProfile(username, password, confirm); msg != "" {
		m.UpdateState.Fail(msg)
		return closed()
	}

	var in model.ProfileUpdate
	if username != "" {
		in.Username = &username
	}
	if password != "" {
		in.Password = &password
	}

	return m.UpdateState.Run(ctx, "update profile", func(ctx context.Context) (model.User, error) {
		id := m.session.UserID()
		if id == 0 {
			return model.User{}, errNotLoggedIn
		}
		u, err := m.api.UpdateProfile(ctx, id, in)
		if err != nil {
			return model.User{}, err
		}
		if in.Username != nil {
			if err := m.session.SetUsername(u.Username); err != nil {
				m.logger.Warn("failed to store new username", zap.Error(err))
			}
		}
		m.clear()
		return u, nil
	})
}

func (m *ProfileModel) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.username, m.password, m.confirm = "", "", ""
}

func checkProfile(username, password, confirm string) string {
	if password != "" {
		if password != confirm {
			return "Passwords do not match"
		}
		if len(password) < minPasswordLen {
			return "Password must be at least 6 characters"
		}
	}
	if username != "" && len(username) < minUsernameLen {
		return "Username must be at least 3 characters"
	}
	if username == "" && password == "" {
		return "No changes to update"
	}
	return ""
}

func closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
