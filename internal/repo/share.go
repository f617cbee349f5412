package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const requestSelect = `
	SELECT r.id, r.project_id, r.from_user_id, r.to_user_id, r.status, r.created_at, r.updated_at,
	       p.id, p.title, p.description, p.owner_id, p.created_at, p.updated_at,
	       fu.username, tu.username
	FROM project_share_requests r
	JOIN projects p ON p.id = r.project_id
	JOIN users fu ON fu.id = r.from_user_id
	JOIN users tu ON tu.id = r.to_user_id`

type ShareRepo struct {
	pool *pgxpool.Pool
}

func NewShareRepo(pool *pgxpool.Pool) *ShareRepo {
	return &ShareRepo{pool: pool}
}

func scanRequest(row scanner) (model.ShareRequest, error) {
	var (
		r        model.ShareRequest
		project  model.ProjectRef
		from, to model.UserRef
	)
	err := row.Scan(
		&r.ID, &r.ProjectID, &r.FromUserID, &r.ToUserID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		&project.ID, &project.Title, &project.Description, &project.OwnerID, &project.CreatedAt, &project.UpdatedAt,
		&from.Username, &to.Username,
	)
	from.ID = r.FromUserID
	to.ID = r.ToUserID
	r.Project, r.FromUser, r.ToUser = &project, &from, &to
	return r, err
}

func (r *ShareRepo) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_shared_users WHERE project_id = $1 AND user_id = $2)
	`, projectID, userID).Scan(&ok)
	return ok, err
}

func (r *ShareRepo) HasPending(ctx context.Context, projectID, toUserID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM project_share_requests
			WHERE project_id = $1 AND to_user_id = $2 AND status = 'PENDING'
		)
	`, projectID, toUserID).Scan(&ok)
	return ok, err
}

func (r *ShareRepo) CreateRequest(ctx context.Context, req model.ShareRequest) (model.ShareRequest, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO project_share_requests (project_id, from_user_id, to_user_id, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id
	`, req.ProjectID, req.FromUserID, req.ToUserID).Scan(&id)
	if err != nil {
		return req, mapError(err)
	}
	return r.GetRequest(ctx, id)
}

func (r *ShareRepo) GetRequest(ctx context.Context, id int64) (model.ShareRequest, error) {
	return getRequest(ctx, r.pool, id, false)
}

func getRequest(ctx context.Context, q querier, id int64, lock bool) (model.ShareRequest, error) {
	query := requestSelect + ` WHERE r.id = $1`
	if lock {
		query += ` FOR UPDATE OF r`
	}
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	return req, mapError(err)
}

// Resolve moves a share request to status inside one transaction. The
// request row is locked first and handed to check, which may veto the
// change; for ACCEPTED the membership row is written before the status so
// both land or neither does.
func (r *ShareRepo) Resolve(ctx context.Context, id int64, status model.ShareStatus, check func(model.ShareRequest) error) (model.ShareRequest, error) {
	var resolved model.ShareRequest
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		req, err := getRequest(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := check(req); err != nil {
			return err
		}

		if status == model.ShareAccepted {
			if _, err := tx.Exec(ctx, `
				INSERT INTO project_shared_users (project_id, user_id) VALUES ($1, $2)
			`, req.ProjectID, req.ToUserID); err != nil {
				return mapError(err)
			}
		}

		if _, err := tx.Exec(ctx, `
			UPDATE project_share_requests SET status = $2, updated_at = now() WHERE id = $1
		`, id, status); err != nil {
			return err
		}

		resolved, err = getRequest(ctx, tx, id, false)
		return err
	})
	return resolved, err
}

func (r *ShareRepo) ListPending(ctx context.Context, toUserID int64) ([]model.ShareRequest, error) {
	rows, err := r.pool.Query(ctx, requestSelect+`
		WHERE r.to_user_id = $1 AND r.status = 'PENDING'
		ORDER BY r.created_at DESC, r.id DESC
	`, toUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]model.ShareRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *ShareRepo) RemoveMember(ctx context.Context, projectID, userID int64) error {
	cmd, err := r.pool.Exec(ctx, `
		DELETE FROM project_shared_users WHERE project_id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}
