// Package testutil starts throwaway Postgres instances for integration tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/taskshare-api/migrations"
)

// SetupTestDB starts a Postgres container with the schema applied and
// returns a pool to it. Skipped under -short.
func SetupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	// Находим путь к миграциям
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	initScript := filepath.Join(projectRoot, "migrations", migrations.InitScript)

	// Создаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.WithInitScripts(initScript),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}
	return pool, cleanup
}

// TruncateTables empties every table and resets identities.
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE project_share_requests, project_shared_users, tasks, projects, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedUser inserts a user with the given password and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = pool.QueryRow(context.Background(),
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, string(hash),
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}

// SeedTasks creates count TODO tasks for userID, optionally inside a project.
func SeedTasks(t *testing.T, pool *pgxpool.Pool, userID int64, projectID *int64, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err := pool.QueryRow(context.Background(), `
			INSERT INTO tasks (user_id, project_id, title, description, start_date, end_date, status)
			VALUES ($1, $2, $3, 'seeded', now(), now() + interval '1 day', 'TODO')
			RETURNING id`,
			userID, projectID, fmt.Sprintf("Task %d", i+1),
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}
