package service

import (
	"context"
	"errors"
	"fmt"

	"eregister/internal/auth/models"
	"eregister/internal/auth/store"
	"eregister/pkg/platform/sentinel"
)

// Service resolves authenticated uids to stored roles. Token validation
// happens in the middleware; this only answers "what may this uid do".
type Service struct {
	users store.UserStore
}

func New(users store.UserStore) *Service {
	return &Service{users: users}
}

// ResolveRole returns the stored role for uid. Uids without a role record
// are citizens: the identity provider owns the account, and only elevated
// roles are recorded on this side.
func (s *Service) ResolveRole(ctx context.Context, uid string) (string, error) {
	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return string(models.RoleCitizen), nil
		}
		return "", fmt.Errorf("resolve role: %w", err)
	}
	if user.Role == "" {
		return string(models.RoleCitizen), nil
	}
	return string(user.Role), nil
}

// WhoAmI projects the caller's identity and resolved role for /api/me.
func (s *Service) WhoAmI(ctx context.Context, uid, email string) (models.User, error) {
	role, err := s.ResolveRole(ctx, uid)
	if err != nil {
		return models.User{}, err
	}
	return models.User{UID: uid, Email: email, Role: models.Role(role)}, nil
}
