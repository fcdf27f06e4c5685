package status

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/services/activity"
	"github.com/mcoot/coophost-go/internal/storage"
)

// publishInterval is the snapshot cadence in scheduler ticks. Ticks arrive
// once per second of session uptime, so this is ten seconds of uptime rather
// than wall clock.
const publishInterval = 10

// Sink receives published snapshots. Writes are best-effort; failures are
// logged and do not interrupt publishing.
type Sink interface {
	Write(status model.SessionStatus) error
}

// Publisher samples session state on a fixed cadence and emits a
// machine-readable snapshot for external consumers: the latest snapshot is
// held for the HTTP endpoint, mirrored into the durable store, and written to
// the optional sink.
type Publisher struct {
	engine  engine.Engine
	storage storage.Store
	logger  *slog.Logger

	// version is read once at construction and cached
	version string
	sinks   []Sink

	mu     sync.RWMutex
	latest model.SessionStatus
}

// Ensure Publisher is schedulable
var _ activity.Activity = (*Publisher)(nil)

// New creates a publisher. The initial snapshot is offline until the first
// publish after the save loads.
func New(eng engine.Engine, store storage.Store, version string, logger *slog.Logger, sinks ...Sink) *Publisher {
	return &Publisher{
		engine:  eng,
		storage: store,
		logger:  logger,
		version: version,
		sinks:   sinks,
		latest:  model.OfflineStatus(version),
	}
}

func (p *Publisher) Name() string {
	return "status"
}

func (p *Publisher) TickInterval() int {
	return publishInterval
}

func (p *Publisher) OnEnabled(ctx context.Context) error {
	return p.Publish(ctx)
}

func (p *Publisher) OnTick(ctx context.Context) error {
	return p.Publish(ctx)
}

func (p *Publisher) OnDayStart(ctx context.Context) error {
	return nil
}

// Publish samples current engine state and emits a snapshot. Sampling never
// mutates anything; before the session has loaded this degrades to the
// offline snapshot.
func (p *Publisher) Publish(ctx context.Context) error {
	if !p.engine.SessionLoaded() {
		p.PublishOffline(ctx)
		return nil
	}

	p.emit(ctx, model.SessionStatus{
		PlayerCount: p.engine.PlayerCount(),
		// Sourced from the engine's live limit so it reflects the last
		// applied tuner value, not the static config
		MaxPlayers:    p.engine.CurrentPlayerLimit(),
		InviteCode:    p.engine.InviteCode(),
		ServerVersion: p.version,
		IsOnline:      true,
	})
	return nil
}

// PublishOffline immediately emits the fixed offline snapshot, bypassing the
// cadence. Called on return-to-title.
func (p *Publisher) PublishOffline(ctx context.Context) {
	p.emit(ctx, model.OfflineStatus(p.version))
}

// Latest returns the most recently published snapshot
func (p *Publisher) Latest() model.SessionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

func (p *Publisher) emit(ctx context.Context, status model.SessionStatus) {
	p.mu.Lock()
	p.latest = status
	p.mu.Unlock()

	if err := p.storage.SaveStatus(ctx, &status); err != nil {
		p.logger.Warn("status store write failed", slog.String("error", err.Error()))
	}
	for _, sink := range p.sinks {
		if err := sink.Write(status); err != nil {
			p.logger.Warn("status sink write failed", slog.String("error", err.Error()))
		}
	}
}
