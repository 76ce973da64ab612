package store

import (
	"context"

	"eregister/internal/application/models"
)

// ApplicationStore owns the one-record-per-uid invariant and transition
// legality. Both mutating operations are atomic per uid so concurrent
// submitters and reviewers cannot both succeed.
type ApplicationStore interface {
	// Create inserts the record iff no application exists for its uid.
	// Returns sentinel.ErrConflict when one does, regardless of its status.
	Create(ctx context.Context, app models.Application) error

	// FindByUID returns the current record or sentinel.ErrNotFound.
	FindByUID(ctx context.Context, uid string) (models.Application, error)

	// List returns every application, newest submission first.
	List(ctx context.Context) ([]models.Application, error)

	// FinalizeIfPending is the compare-and-set review transition: it moves
	// uid's record from pending to the given terminal status, recording
	// credentialRef (empty for rejections). Returns sentinel.ErrNotFound if
	// no record exists and sentinel.ErrConflict if the stored status is no
	// longer pending. Exactly one of N concurrent callers succeeds.
	FinalizeIfPending(ctx context.Context, uid string, status models.Status, credentialRef string) (models.Application, error)
}
