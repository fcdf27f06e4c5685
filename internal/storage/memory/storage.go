package memory

import (
	"context"
	"sync"

	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/storage"
)

// Storage is an in-memory implementation of the store interface. It does not
// survive restarts; it exists for tests and for running without redis.
type Storage struct {
	mu sync.RWMutex

	authorization *model.AuthorizationRecord
	status        *model.SessionStatus
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) GetAuthorization(ctx context.Context) (*model.AuthorizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.authorization == nil {
		return nil, model.ErrAuthorizationNotFound
	}
	return s.authorization, nil
}

func (s *Storage) SaveAuthorization(ctx context.Context, rec *model.AuthorizationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorization = rec
	return nil
}

func (s *Storage) GetStatus(ctx context.Context) (*model.SessionStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status == nil {
		return nil, model.ErrStatusNotFound
	}
	return s.status, nil
}

func (s *Storage) SaveStatus(ctx context.Context, status *model.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	return nil
}
