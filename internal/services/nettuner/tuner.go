package nettuner

import (
	"context"
	"log/slog"

	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/services/activity"
)

// Fixed timing parameters tuned for lower perceived latency at the cost of
// more frequent updates. Deliberately not configurable.
const (
	interpolationTicks = 4
	broadcastRate      = 3
)

// Tuner applies session-wide network parameters every tick. Every adjustment
// is idempotent, so reapplying on each tick is safe and also heals any drift
// the engine introduces on its own.
type Tuner struct {
	engine     engine.Engine
	logger     *slog.Logger
	maxPlayers int
}

// Ensure Tuner is schedulable
var _ activity.Activity = (*Tuner)(nil)

// New creates a tuner that holds the session at the configured player limit
func New(eng engine.Engine, maxPlayers int, logger *slog.Logger) *Tuner {
	return &Tuner{
		engine:     eng,
		logger:     logger,
		maxPlayers: maxPlayers,
	}
}

func (t *Tuner) Name() string {
	return "nettuner"
}

func (t *Tuner) TickInterval() int {
	return 1
}

func (t *Tuner) OnEnabled(ctx context.Context) error {
	return t.apply()
}

func (t *Tuner) OnTick(ctx context.Context) error {
	return t.apply()
}

func (t *Tuner) OnDayStart(ctx context.Context) error {
	return nil
}

// MaxPlayers returns the configured participant limit the tuner enforces
func (t *Tuner) MaxPlayers() int {
	return t.maxPlayers
}

func (t *Tuner) apply() error {
	t.engine.SetInterpolationTicks(interpolationTicks)
	t.engine.SetBroadcastRate(broadcastRate)

	// The engine tracks a current and a historical-high limit separately;
	// both must follow the configured value when they drift
	if t.engine.CurrentPlayerLimit() != t.maxPlayers {
		t.logger.Info("restoring current player limit",
			slog.Int("from", t.engine.CurrentPlayerLimit()),
			slog.Int("to", t.maxPlayers),
		)
		t.engine.SetCurrentPlayerLimit(t.maxPlayers)
	}
	if t.engine.PeakPlayerLimit() != t.maxPlayers {
		t.engine.SetPeakPlayerLimit(t.maxPlayers)
	}

	return nil
}
