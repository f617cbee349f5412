package model

import "time"

type ShareStatus string

const (
	SharePending  ShareStatus = "PENDING"
	ShareAccepted ShareStatus = "ACCEPTED"
	ShareDeclined ShareStatus = "DECLINED"
)

// Resolution reports whether s is a status a pending request can be resolved to.
func (s ShareStatus) Resolution() bool {
	return s == ShareAccepted || s == ShareDeclined
}

type ShareRequest struct {
	ID         int64       `json:"id"`
	ProjectID  int64       `json:"projectId"`
	FromUserID int64       `json:"fromUserId"`
	ToUserID   int64       `json:"toUserId"`
	Status     ShareStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`

	Project  *ProjectRef `json:"project,omitempty"`
	FromUser *UserRef    `json:"fromUser,omitempty"`
	ToUser   *UserRef    `json:"toUser,omitempty"`
}

// ProjectRef is the project summary embedded in share requests.
type ProjectRef struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ShareInput struct {
	TargetUserID int64 `json:"targetUserId" validate:"required"`
}

type ResolveInput struct {
	Status ShareStatus `json:"status" validate:"required"`
}
