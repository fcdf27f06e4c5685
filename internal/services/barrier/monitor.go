package barrier

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/coophost-go/internal/dependencies/clock"
	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
)

// Phase is the monitor's position in the day-transition protocol
type Phase int

// Phases
const (
	PhaseIdle Phase = iota
	PhaseAwaitingBarrier
	PhaseAwaitingSaveReady
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingBarrier:
		return "awaiting-barrier"
	case PhaseAwaitingSaveReady:
		return "awaiting-save-ready"
	default:
		return "idle"
	}
}

// Config holds the timeout lengths for the two monitored phases
type Config struct {
	// BarrierTimeout bounds how long participants may take to reach the
	// pre-save synchronization barrier after DayEnding
	BarrierTimeout time.Duration

	// SaveReadyTimeout bounds how long participants may take to report
	// end-of-night readiness after Saving
	SaveReadyTimeout time.Duration
}

// DefaultConfig returns the designed timeout defaults
func DefaultConfig() Config {
	return Config{
		BarrierTimeout:   20 * time.Second,
		SaveReadyTimeout: 60 * time.Second,
	}
}

// Monitor watches the day-transition sequence and forcibly disconnects
// participants that fail to keep up, because a single stalled client
// otherwise freezes the transition for everyone.
//
// Each phase races a timer against the engine event that clears it. The race
// resolves to first-observed-wins: lifecycle events and timer callbacks all
// serialize on one mutex, and a timer callback that loses the race observes a
// bumped generation token and becomes a no-op. Day transitions are delivered
// serially by the engine, but a previous day's pending timer is always
// cancelled before a new one starts so a stale timer can never kick on the
// wrong day.
type Monitor struct {
	engine engine.Engine
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config

	mu       sync.Mutex
	phase    Phase
	timer    clock.Timer
	gen      uint64
	skipNext bool
}

// New creates an idle monitor
func New(eng engine.Engine, clk clock.Clock, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.BarrierTimeout == 0 {
		cfg.BarrierTimeout = DefaultConfig().BarrierTimeout
	}
	if cfg.SaveReadyTimeout == 0 {
		cfg.SaveReadyTimeout = DefaultConfig().SaveReadyTimeout
	}
	return &Monitor{
		engine: eng,
		clock:  clk,
		logger: logger,
		cfg:    cfg,
	}
}

// SkipNextWindow suppresses monitoring for the next DayEnding. Used for the
// very first day of a fresh session, where no save transition has happened
// yet and clients legitimately have nothing to synchronize against.
func (m *Monitor) SkipNextWindow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipNext = true
}

// DayEnding opens a new barrier window: participants now have the barrier
// timeout to reach the pre-save synchronization point
func (m *Monitor) DayEnding() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()

	if m.skipNext {
		m.skipNext = false
		m.phase = PhaseIdle
		m.logger.Info("skipping barrier window for first day")
		return
	}

	m.phase = PhaseAwaitingBarrier
	m.armLocked(m.cfg.BarrierTimeout, m.expireBarrierLocked)
	m.logger.Debug("barrier window opened", slog.Duration("timeout", m.cfg.BarrierTimeout))
}

// Saving means the engine cleared the barrier naturally; the barrier timer is
// cancelled and the save-ready timer starts
func (m *Monitor) Saving() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseAwaitingBarrier {
		// No window for this day (first day, or the barrier already
		// expired); nothing to supersede
		return
	}

	m.cancelLocked()
	m.phase = PhaseAwaitingSaveReady
	m.armLocked(m.cfg.SaveReadyTimeout, m.expireSaveReadyLocked)
	m.logger.Debug("barrier cleared, awaiting save readiness", slog.Duration("timeout", m.cfg.SaveReadyTimeout))
}

// Saved retires the window: the transition completed in time and nobody is
// kicked
func (m *Monitor) Saved() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	m.phase = PhaseIdle
}

// Phase returns the monitor's current phase
func (m *Monitor) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// cancelLocked synchronously invalidates any outstanding timer. A callback
// that already fired and is waiting on the mutex will observe the bumped
// generation and do nothing.
func (m *Monitor) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

// armLocked starts a timer whose callback runs expire under the mutex only if
// the window it was armed for is still current
func (m *Monitor) armLocked(d time.Duration, expire func()) {
	gen := m.gen
	m.timer = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen != gen {
			return
		}
		m.timer = nil
		m.gen++
		expire()
	})
}

// expireBarrierLocked kicks every connected participant that has not reached
// the barrier
func (m *Monitor) expireBarrierLocked() {
	cleared := m.engine.BarrierCleared()
	for _, id := range m.engine.ConnectedPlayers() {
		if !slices.Contains(cleared, id) {
			m.kick(id, "did not reach the end-of-day barrier in time")
		}
	}
	m.phase = PhaseIdle
}

// expireSaveReadyLocked kicks every connected participant that has not
// reported end-of-night readiness
func (m *Monitor) expireSaveReadyLocked() {
	for _, id := range m.engine.ConnectedPlayers() {
		if m.engine.ReadyStatus(id) != engine.ReadyStatusReady {
			m.kick(id, "did not finish saving in time")
		}
	}
	m.phase = PhaseIdle
}

// kick forcibly disconnects a participant. The participant may already be
// gone by the time a timer fires; that is tolerated.
func (m *Monitor) kick(id model.PlayerID, reason string) {
	m.logger.Info("kicking desynced player",
		slog.String("player", id.String()),
		slog.String("reason", reason),
	)
	if err := m.engine.Kick(id, reason); err != nil {
		m.logger.Warn("kick failed",
			slog.String("player", id.String()),
			slog.String("error", err.Error()),
		)
	}
}
