package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const taskColumns = `id, user_id, project_id, title, description, start_date, end_date, status, created_at, updated_at`

type TaskRepo struct { // Репозиторий задач поверх pgxpool
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.ProjectID, &t.Title, &t.Description,
		&t.StartDate, &t.EndDate, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (user_id, project_id, title, description, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		t.UserID, t.ProjectID, t.Title, t.Description, t.StartDate, t.EndDate, t.Status,
	))
	return created, mapError(err)
}

func (r *TaskRepo) Get(ctx context.Context, userID, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	return t, mapError(err)
}

func (r *TaskRepo) List(ctx context.Context, userID int64) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update saves t only if the stored status is still from. A task that was
// moved or deleted since it was read yields ErrorConflict.
func (r *TaskRepo) Update(ctx context.Context, t model.Task, from model.TaskStatus) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, start_date = $5, end_date = $6,
		    status = $7, project_id = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status = $9
		RETURNING `+taskColumns,
		t.ID, t.UserID, t.Title, t.Description, t.StartDate, t.EndDate, t.Status, t.ProjectID, from,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return updated, ErrorConflict
	}
	return updated, mapError(err)
}

func (r *TaskRepo) Delete(ctx context.Context, userID, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) GetStats(ctx context.Context, userID int64) (model.TaskStats, error) {
	var s model.TaskStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'TODO'),
		       count(*) FILTER (WHERE status = 'COMPLETED'),
		       count(*) FILTER (WHERE status = 'CANCELLED'),
		       count(*) FILTER (WHERE status = 'EXPIRED')
		FROM tasks
		WHERE user_id = $1
	`, userID).Scan(&s.TotalTasks, &s.Todo, &s.Completed, &s.Cancelled, &s.Expired)
	return s, err
}

// ExpireOverdue moves every open task whose end date is before now to
// EXPIRED and returns how many rows changed.
func (r *TaskRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET status = 'EXPIRED', updated_at = now()
		WHERE status IN ('TODO', 'IN_PROGRESS') AND end_date < $1
	`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
