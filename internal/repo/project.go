package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const projectSelect = `
	SELECT p.id, p.title, p.description, p.owner_id, p.created_at, p.updated_at, u.username
	FROM projects p
	JOIN users u ON u.id = p.owner_id`

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

func scanProject(row scanner) (model.Project, error) {
	var (
		p     model.Project
		owner model.UserRef
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &owner.Username)
	owner.ID = p.OwnerID
	p.Owner = &owner
	p.Tasks = []model.Task{}
	p.SharedWith = []model.SharedUser{}
	return p, err
}

func (r *ProjectRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (title, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.Title, p.Description, p.OwnerID).Scan(&id)
	if err != nil {
		return p, mapError(err)
	}
	return r.Get(ctx, id)
}

func (r *ProjectRepo) Get(ctx context.Context, id int64) (model.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return p, mapError(err)
	}

	projects := []model.Project{p}
	if err := r.fill(ctx, projects); err != nil {
		return p, err
	}
	return projects[0], nil
}

// ListVisible returns the projects userID owns or is a member of.
func (r *ProjectRepo) ListVisible(ctx context.Context, userID int64) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx, projectSelect+`
		WHERE p.owner_id = $1
		   OR EXISTS (SELECT 1 FROM project_shared_users s WHERE s.project_id = p.id AND s.user_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.fill(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p model.Project) (model.Project, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET title = $2, description = $3, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Title, p.Description)
	if err != nil {
		return p, err
	}
	if cmd.RowsAffected() == 0 {
		return p, ErrorNotFound
	}
	return r.Get(ctx, p.ID)
}

// Delete removes the project in one transaction: memberships and share
// requests are deleted, tasks are detached and kept.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM project_shared_users WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM project_share_requests WHERE project_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE tasks SET project_id = NULL, updated_at = now() WHERE project_id = $1`, id); err != nil {
			return err
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrorNotFound
		}
		return nil
	})
}

// fill loads tasks and members for the given projects in two queries.
func (r *ProjectRepo) fill(ctx context.Context, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]int64, len(projects))
	index := make(map[int64]int, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		index[p.ID] = i
	}

	if err := r.fillTasks(ctx, projects, ids, index); err != nil {
		return err
	}
	return r.fillMembers(ctx, projects, ids, index)
}

func (r *ProjectRepo) fillTasks(ctx context.Context, projects []model.Project, ids []int64, index map[int64]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.project_id, t.title, t.description, t.start_date, t.end_date,
		       t.status, t.created_at, t.updated_at, u.username
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.project_id = ANY($1)
		ORDER BY t.created_at DESC, t.id DESC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t    model.Task
			user model.UserRef
		)
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.ProjectID, &t.Title, &t.Description, &t.StartDate, &t.EndDate,
			&t.Status, &t.CreatedAt, &t.UpdatedAt, &user.Username,
		); err != nil {
			return err
		}
		user.ID = t.UserID
		t.User = &user

		i := index[*t.ProjectID]
		projects[i].Tasks = append(projects[i].Tasks, t)
	}
	return rows.Err()
}

func (r *ProjectRepo) fillMembers(ctx context.Context, projects []model.Project, ids []int64, index map[int64]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.project_id, s.user_id, s.created_at, u.username
		FROM project_shared_users s
		JOIN users u ON u.id = s.user_id
		WHERE s.project_id = ANY($1)
		ORDER BY s.id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var su model.SharedUser
		if err := rows.Scan(&su.ID, &su.ProjectID, &su.UserID, &su.CreatedAt, &su.User.Username); err != nil {
			return err
		}
		su.User.ID = su.UserID

		i := index[su.ProjectID]
		projects[i].SharedWith = append(projects[i].SharedWith, su)
	}
	return rows.Err()
}
