package store

import (
	"context"

	"eregister/internal/auth/models"
)

// UserStore resolves uid → role records. Interface-driven so the in-memory
// and Postgres implementations stay swappable under the auth service.
type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByUID(ctx context.Context, uid string) (models.User, error)
}
