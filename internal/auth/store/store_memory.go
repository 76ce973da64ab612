package store

import (
	"context"
	"sync"

	"eregister/internal/auth/models"
	"eregister/pkg/platform/sentinel"
)

// InMemoryUserStore keeps role records in a map. It favors clarity over
// performance and backs local development and tests.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemory() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]models.User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UID] = user
	return nil
}

func (s *InMemoryUserStore) FindByUID(_ context.Context, uid string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[uid]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}
