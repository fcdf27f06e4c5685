package storage

import (
	"context"

	"github.com/mcoot/coophost-go/internal/model"
)

// Store is the save-scoped durable record store. Records persist across
// process restarts and are scoped to a single save; bindings are expected to
// serialize their own I/O, callers keep all writes for one key on one
// goroutine.
type Store interface {
	// Authorization record
	GetAuthorization(ctx context.Context) (*model.AuthorizationRecord, error)
	SaveAuthorization(ctx context.Context, rec *model.AuthorizationRecord) error

	// Last published status snapshot, overwritten on every publish
	GetStatus(ctx context.Context) (*model.SessionStatus, error)
	SaveStatus(ctx context.Context, status *model.SessionStatus) error
}
