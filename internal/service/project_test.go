package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
	"github.com/BuzzLyutic/taskshare-api/internal/repo"
)

func sharedProject() model.Project {
	return model.Project{
		ID:         5,
		Title:      "Home",
		OwnerID:    1,
		SharedWith: []model.SharedUser{{ID: 1, ProjectID: 5, UserID: 2}},
	}
}

func TestProjectService_Get(t *testing.T) {
	tests := []struct {
		name    string
		caller  int64
		repoErr error
		wantErr error
	}{
		{name: "owner", caller: 1},
		{name: "member", caller: 2},
		{name: "stranger", caller: 3, wantErr: ErrNotFound},
		{name: "missing", caller: 1, repoErr: repo.ErrorNotFound, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			projects.On("Get", mock.Anything, int64(5)).Return(sharedProject(), tt.repoErr)

			p, err := NewProjectService(projects).Get(context.Background(), tt.caller, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), p.ID)
			}
		})
	}
}

func TestProjectService_Create(t *testing.T) {
	t.Run("title required", func(t *testing.T) {
		projects := new(MockProjectRepository)
		_, err := NewProjectService(projects).Create(context.Background(), 1, model.ProjectInput{Title: " "})
		assert.ErrorIs(t, err, ErrValidation)
		projects.AssertExpectations(t)
	})

	t.Run("blank description dropped", func(t *testing.T) {
		projects := new(MockProjectRepository)
		blank := "  "
		projects.On("Create", mock.Anything, mock.MatchedBy(func(p model.Project) bool {
			return p.OwnerID == 1 && p.Title == "Home" && p.Description == nil
		})).Return(model.Project{ID: 9, Title: "Home", OwnerID: 1}, nil)

		p, err := NewProjectService(projects).Create(context.Background(), 1,
			model.ProjectInput{Title: "Home ", Description: &blank})

		require.NoError(t, err)
		assert.Equal(t, int64(9), p.ID)
		projects.AssertExpectations(t)
	})
}

func TestProjectService_Update(t *testing.T) {
	tests := []struct {
		name    string
		caller  int64
		wantErr error
	}{
		{name: "owner", caller: 1},
		{name: "member", caller: 2},
		{name: "stranger", caller: 3, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			projects.On("Get", mock.Anything, int64(5)).Return(sharedProject(), nil)
			if tt.wantErr == nil {
				projects.On("Update", mock.Anything, mock.MatchedBy(func(p model.Project) bool {
					return p.ID == 5 && p.Title == "Renamed"
				})).Return(model.Project{ID: 5, Title: "Renamed"}, nil)
			}

			p, err := NewProjectService(projects).Update(context.Background(), tt.caller, 5,
				model.ProjectInput{Title: "Renamed"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Renamed", p.Title)
			}
			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Update_Description(t *testing.T) {
	strp := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{name: "omitted keeps current", in: nil, want: strp("keep me")},
		{name: "blank clears", in: strp("   "), want: nil},
		{name: "new value is trimmed", in: strp(" fresh "), want: strp("fresh")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := sharedProject()
			current.Description = strp("keep me")

			projects := new(MockProjectRepository)
			projects.On("Get", mock.Anything, int64(5)).Return(current, nil)
			projects.On("Update", mock.Anything, mock.MatchedBy(func(p model.Project) bool {
				return assert.ObjectsAreEqual(tt.want, p.Description)
			})).Return(model.Project{ID: 5, Title: "Renamed", Description: tt.want}, nil)

			p, err := NewProjectService(projects).Update(context.Background(), 1, 5,
				model.ProjectInput{Title: "Renamed", Description: tt.in})

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Description)
			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		caller  int64
		repoErr error
		wantErr error
	}{
		{name: "owner", caller: 1},
		{name: "member is not owner", caller: 2, wantErr: ErrForbidden},
		{name: "missing project", caller: 1, repoErr: repo.ErrorNotFound, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := new(MockProjectRepository)
			projects.On("Get", mock.Anything, int64(5)).Return(sharedProject(), tt.repoErr)
			if tt.wantErr == nil {
				projects.On("Delete", mock.Anything, int64(5)).Return(nil)
			}

			err := NewProjectService(projects).Delete(context.Background(), tt.caller, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			projects.AssertExpectations(t)
		})
	}
}
