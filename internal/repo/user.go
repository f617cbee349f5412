package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

const userColumns = `id, username, password_hash, email, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.Email,
	))
	return created, mapError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, mapError(err)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	return u, mapError(err)
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, u model.User) (model.User, error) {
	updated, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $2, password_hash = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Username, u.PasswordHash,
	))
	return updated, mapError(err)
}
