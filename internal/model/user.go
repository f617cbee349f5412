package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the trimmed user embedded in projects, tasks and share requests.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// ProfileUpdate carries the optional fields of a profile edit.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}
