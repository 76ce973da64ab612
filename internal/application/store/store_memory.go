package store

import (
	"context"
	"sort"
	"sync"

	"eregister/internal/application/models"
	"eregister/pkg/platform/sentinel"
)

// InMemoryApplicationStore keeps records in a map guarded by one mutex, so
// the check-and-write pairs in Create and FinalizeIfPending are atomic.
type InMemoryApplicationStore struct {
	mu   sync.RWMutex
	apps map[string]models.Application
}

func NewInMemory() *InMemoryApplicationStore {
	return &InMemoryApplicationStore{apps: make(map[string]models.Application)}
}

func (s *InMemoryApplicationStore) Create(_ context.Context, app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.UID]; ok {
		return sentinel.ErrConflict
	}
	s.apps[app.UID] = app
	return nil
}

func (s *InMemoryApplicationStore) FindByUID(_ context.Context, uid string) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if app, ok := s.apps[uid]; ok {
		return app, nil
	}
	return models.Application{}, sentinel.ErrNotFound
}

func (s *InMemoryApplicationStore) List(_ context.Context) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := make([]models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].SubmittedAt.Equal(apps[j].SubmittedAt) {
			return apps[i].UID < apps[j].UID
		}
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
	return apps, nil
}

func (s *InMemoryApplicationStore) FinalizeIfPending(_ context.Context, uid string, status models.Status, credentialRef string) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[uid]
	if !ok {
		return models.Application{}, sentinel.ErrNotFound
	}
	if app.Status != models.StatusPending {
		return models.Application{}, sentinel.ErrConflict
	}
	app.Status = status
	app.CredentialRef = credentialRef
	s.apps[uid] = app
	return app, nil
}
