package factory

import (
	"time"

	"github.com/mcoot/coophost-go/internal/dependencies/mocks"
	"github.com/mcoot/coophost-go/internal/engine/enginetest"
	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/storage/memory"
	"github.com/mcoot/coophost-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	Engine    *enginetest.Fake
	MockClock *mocks.MockClock
	Store     *memory.Storage
}

// NewTestApp creates an App wired around a fake engine, mock clock and
// memory storage
func NewTestApp(owner model.PlayerID, cfg Config) (*TestApp, error) {
	store := memory.New()
	eng := enginetest.New(owner)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	if cfg.Version == "" {
		cfg.Version = "test"
	}

	app, err := newWithDependencies(eng, store, mockClock, cfg, testutil.NopLogger())
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:       app,
		Engine:    eng,
		MockClock: mockClock,
		Store:     store,
	}, nil
}
