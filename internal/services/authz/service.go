package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/storage"
)

// Service owns the durable participant-to-role mapping for the loaded save.
// Every mutation is written through to storage before the call returns, so a
// process restart never loses a role change.
type Service struct {
	storage storage.Store
	logger  *slog.Logger

	mu     sync.RWMutex
	record *model.AuthorizationRecord
}

// New creates a new authorization service. Load must be called once the save
// is available before any queries or mutations.
func New(store storage.Store, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
	}
}

// Load adopts the stored authorization record for the save, or creates a
// fresh one with owner seeded as admin if none exists yet
func (s *Service) Load(ctx context.Context, owner model.PlayerID) error {
	rec, err := s.storage.GetAuthorization(ctx)
	switch {
	case errors.Is(err, model.ErrAuthorizationNotFound):
		rec = model.NewAuthorizationRecord(owner)
		if err := s.storage.SaveAuthorization(ctx, rec); err != nil {
			return fmt.Errorf("seed authorization record: %w", err)
		}
		s.logger.Info("seeded authorization record", slog.String("owner", owner.String()))
	case err != nil:
		return fmt.Errorf("load authorization record: %w", err)
	default:
		s.logger.Info("adopted authorization record",
			slog.String("owner", rec.OwnerID.String()),
			slog.Int("entries", len(rec.Roles)),
		)
	}

	s.mu.Lock()
	s.record = rec
	s.mu.Unlock()
	return nil
}

// AssignAdmin grants the admin role and persists the change before returning
func (s *Service) AssignAdmin(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return model.ErrAuthorizationNotLoaded
	}

	s.record.Roles[id] = model.RoleAdmin
	if err := s.storage.SaveAuthorization(ctx, s.record); err != nil {
		return fmt.Errorf("persist authorization record: %w", err)
	}
	return nil
}

// UnassignAdmin revokes the admin role and persists the change. Demoting the
// session owner is a no-op; the owner is permanently privileged.
func (s *Service) UnassignAdmin(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return model.ErrAuthorizationNotLoaded
	}

	if id == s.record.OwnerID {
		return nil
	}

	s.record.Roles[id] = model.RoleUnassigned
	if err := s.storage.SaveAuthorization(ctx, s.record); err != nil {
		return fmt.Errorf("persist authorization record: %w", err)
	}
	return nil
}

// IsAdmin reports whether a stored role entry exists for id and is admin
func (s *Service) IsAdmin(id model.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return false
	}
	return s.record.Roles[id] == model.RoleAdmin
}

// IsOwner reports whether id is the session owner captured at first load
func (s *Service) IsOwner(id model.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.record != nil && id == s.record.OwnerID
}

// ListAdmins returns all identifiers currently mapped to admin, in
// unspecified order
func (s *Service) ListAdmins() []model.PlayerID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return nil
	}

	admins := make([]model.PlayerID, 0, len(s.record.Roles))
	for id, role := range s.record.Roles {
		if role == model.RoleAdmin {
			admins = append(admins, id)
		}
	}
	return admins
}
