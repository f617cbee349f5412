package model

import "time"

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Owner      *UserRef     `json:"owner,omitempty"`
	Tasks      []Task       `json:"tasks"`
	SharedWith []SharedUser `json:"sharedWith"`
}

// HasMember reports whether userID owns the project or is one of its members.
func (p Project) HasMember(userID int64) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, su := range p.SharedWith {
		if su.UserID == userID {
			return true
		}
	}
	return false
}

type ProjectInput struct {
	Title       string  `json:"title" validate:"notblank"`
	Description *string `json:"description"`
}

// SharedUser grants a non-owner access to a project.
type SharedUser struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	UserID    int64     `json:"userId"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
