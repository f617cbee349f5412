package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	current := model.User{ID: 1, Username: "alice", PasswordHash: "old"}

	tests := []struct {
		name      string
		caller    int64
		input     model.ProfileUpdate
		setupMock func(*MockUserRepository)
		wantErr   error
		check     func(*testing.T, model.User)
	}{
		{
			name:      "someone else's profile",
			caller:    2,
			input:     model.ProfileUpdate{Username: strPtr("bob")},
			setupMock: func(*MockUserRepository) {},
			wantErr:   ErrForbidden,
		},
		{
			name:      "nothing to change",
			caller:    1,
			input:     model.ProfileUpdate{Username: strPtr(" "), Password: strPtr("")},
			setupMock: func(*MockUserRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "password longer than bcrypt accepts",
			caller:    1,
			input:     model.ProfileUpdate{Password: strPtr(strings.Repeat("p", 73))},
			setupMock: func(*MockUserRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:   "username taken",
			caller: 1,
			input:  model.ProfileUpdate{Username: strPtr("bob")},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
				m.On("GetByUsername", mock.Anything, "bob").Return(model.User{ID: 2, Username: "bob"}, nil)
			},
			wantErr: ErrConflict,
		},
		{
			name:   "rename",
			caller: 1,
			input:  model.ProfileUpdate{Username: strPtr(" alicia ")},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
				m.On("GetByUsername", mock.Anything, "alicia").Return(model.User{}, repo.ErrorNotFound)
				m.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
					return u.Username == "alicia" && u.PasswordHash == "old"
				})).Return(model.User{ID: 1, Username: "alicia"}, nil)
			},
			check: func(t *testing.T, u model.User) {
				assert.Equal(t, "alicia", u.Username)
			},
		},
		{
			name:   "same username with new password",
			caller: 1,
			input:  model.ProfileUpdate{Username: strPtr("alice"), Password: strPtr("newpass")},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
					return u.Username == "alice" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass")) == nil
				})).Return(model.User{ID: 1, Username: "alice"}, nil)
			},
			check: func(t *testing.T, u model.User) {
				assert.Equal(t, int64(1), u.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			u, err := NewUserService(users, bcrypt.MinCost).UpdateProfile(context.Background(), tt.caller, 1, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.check(t, u)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, int64(9)).Return(model.User{}, repo.ErrorNotFound)

	_, err := NewUserService(users, bcrypt.MinCost).Get(context.Background(), 9)

	assert.ErrorIs(t, err, ErrNotFound)
	users.AssertExpectations(t)
}
