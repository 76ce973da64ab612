package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eregister/internal/auth/models"
	"eregister/pkg/platform/sentinel"
)

// PostgresUserStore persists role records in PostgreSQL.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// Schema for the users table; applied by deployment migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    uid   TEXT PRIMARY KEY,
    email TEXT NOT NULL DEFAULT '',
    role  TEXT NOT NULL DEFAULT 'citizen'
);
`

func (s *PostgresUserStore) Save(ctx context.Context, user models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (uid, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE SET email = EXCLUDED.email, role = EXCLUDED.role`,
		user.UID, user.Email, string(user.Role),
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByUID(ctx context.Context, uid string) (models.User, error) {
	var user models.User
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT uid, email, role FROM users WHERE uid = $1`, uid,
	).Scan(&user.UID, &user.Email, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, sentinel.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user by uid: %w", err)
	}
	user.Role = models.Role(role)
	return user, nil
}
