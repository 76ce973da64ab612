package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eregister/internal/application/models"
	"eregister/pkg/platform/sentinel"
)

// PostgresApplicationStore persists applications in PostgreSQL. Uniqueness
// and transition legality ride on the uid primary key and conditional
// UPDATE, so concurrent writers race inside the database, not in Go.
type PostgresApplicationStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresApplicationStore {
	return &PostgresApplicationStore{pool: pool}
}

// Schema for the applications table; applied by deployment migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS applications (
    uid               TEXT PRIMARY KEY,
    application_id    TEXT NOT NULL,
    full_name         TEXT NOT NULL,
    dob               TEXT NOT NULL,
    address           TEXT NOT NULL,
    village           TEXT NOT NULL,
    photo_ref         TEXT NOT NULL,
    birth_cert_ref    TEXT NOT NULL,
    guardian_cert_ref TEXT NOT NULL DEFAULT '',
    status            TEXT NOT NULL DEFAULT 'pending',
    credential_ref    TEXT NOT NULL DEFAULT '',
    submitted_at      TIMESTAMPTZ NOT NULL
);
`

const selectColumns = `uid, application_id, full_name, dob, address, village,
photo_ref, birth_cert_ref, guardian_cert_ref, status, credential_ref, submitted_at`

func (s *PostgresApplicationStore) Create(ctx context.Context, app models.Application) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO applications
			(uid, application_id, full_name, dob, address, village,
			 photo_ref, birth_cert_ref, guardian_cert_ref, status, credential_ref, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (uid) DO NOTHING`,
		app.UID, app.ApplicationID, app.FullName, app.DOB, app.Address, app.Village,
		app.PhotoRef, app.BirthCertRef, app.GuardianCertRef, string(app.Status),
		app.CredentialRef, app.SubmittedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// Unique violation can still surface under serializable isolation.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresApplicationStore) FindByUID(ctx context.Context, uid string) (models.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM applications WHERE uid = $1`, uid)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Application{}, sentinel.ErrNotFound
		}
		return models.Application{}, fmt.Errorf("find application by uid: %w", err)
	}
	return app, nil
}

func (s *PostgresApplicationStore) List(ctx context.Context) ([]models.Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM applications ORDER BY submitted_at DESC, uid`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *PostgresApplicationStore) FinalizeIfPending(ctx context.Context, uid string, status models.Status, credentialRef string) (models.Application, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE applications
		SET status = $2, credential_ref = $3
		WHERE uid = $1 AND status = 'pending'
		RETURNING `+selectColumns,
		uid, string(status), credentialRef,
	)
	app, err := scanApplication(row)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Application{}, fmt.Errorf("finalize application: %w", err)
	}

	// No pending row matched: distinguish absent from already finalized.
	var current string
	err = s.pool.QueryRow(ctx, `SELECT status FROM applications WHERE uid = $1`, uid).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Application{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Application{}, fmt.Errorf("finalize application: %w", err)
	}
	return models.Application{}, sentinel.ErrConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (models.Application, error) {
	var app models.Application
	var status string
	err := row.Scan(
		&app.UID, &app.ApplicationID, &app.FullName, &app.DOB, &app.Address,
		&app.Village, &app.PhotoRef, &app.BirthCertRef, &app.GuardianCertRef,
		&status, &app.CredentialRef, &app.SubmittedAt,
	)
	if err != nil {
		return models.Application{}, err
	}
	app.Status = models.Status(status)
	return app, nil
}
