package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

// Session holds who is logged in. Token is empty when nobody is.
type Session interface {
	Token() string
	UserID() int64
	Username() string
	Save(auth model.AuthResponse) error
	SetUsername(username string) error
	Clear() error
}

type MemorySession struct {
	mu   sync.RWMutex
	auth model.AuthResponse
}

func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Token
}

func (s *MemorySession) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.ID
}

func (s *MemorySession) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Username
}

func (s *MemorySession) Save(auth model.AuthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
	return nil
}

func (s *MemorySession) SetUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.Username = username
	return nil
}

func (s *MemorySession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = model.AuthResponse{}
	return nil
}

// FileSession keeps the session in a YAML file so it survives between CLI
// invocations.
type FileSession struct {
	MemorySession
	path string
	v    *viper.Viper
}

const (
	keyID       = "user_id"
	keyUsername = "username"
	keyToken    = "token"
)

func LoadFileSession(path string) (*FileSession, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}

	s := &FileSession{path: path, v: v}
	s.auth = model.AuthResponse{
		ID:       v.GetInt64(keyID),
		Username: v.GetString(keyUsername),
		Token:    v.GetString(keyToken),
	}
	return s, nil
}

func (s *FileSession) Save(auth model.AuthResponse) error {
	if err := s.MemorySession.Save(auth); err != nil {
		return err
	}
	return s.write()
}

func (s *FileSession) SetUsername(username string) error {
	if err := s.MemorySession.SetUsername(username); err != nil {
		return err
	}
	return s.write()
}

func (s *FileSession) Clear() error {
	if err := s.MemorySession.Clear(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *FileSession) write() error {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()

	s.v.Set(keyID, auth.ID)
	s.v.Set(keyUsername, auth.Username)
	s.v.Set(keyToken, auth.Token)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Chmod(s.path, 0o600)
}
