// Package sim provides a loopback engine implementation for local
// development. It maintains a small synthetic roster and drives the control
// plane through tick and day-lifecycle events on a wall-clock schedule, so
// the host binary can run end to end without the real game runtime.
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
)

// Host is the event surface the simulator drives. The session manager
// satisfies it.
type Host interface {
	Bootstrap(ctx context.Context) error
	Tick(ctx context.Context)
	DayEnding(ctx context.Context)
	Saving(ctx context.Context)
	Saved(ctx context.Context)
	DayStarted(ctx context.Context)
}

// Config holds simulator timing
type Config struct {
	// DayLength is the wall-clock length of one in-session day
	DayLength time.Duration

	// Owner is the synthetic session owner's identifier
	Owner model.PlayerID
}

// DefaultConfig returns simulator defaults
func DefaultConfig() Config {
	return Config{
		DayLength: 10 * time.Minute,
		Owner:     1,
	}
}

// Engine is the simulated game runtime
type Engine struct {
	logger *slog.Logger
	cfg    Config

	mu      sync.RWMutex
	loaded  bool
	players []model.PlayerID
	invite  string

	currentLimit int
	peakLimit    int
	interpTicks  int
	broadcast    int
}

// Ensure Engine implements the collaborator interface
var _ engine.Engine = (*Engine)(nil)

// New creates a simulated engine
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.DayLength == 0 {
		cfg.DayLength = DefaultConfig().DayLength
	}
	if cfg.Owner == 0 {
		cfg.Owner = DefaultConfig().Owner
	}
	return &Engine{
		logger: logger,
		cfg:    cfg,
		invite: "SIM000",
	}
}

// Run delivers ticks once per second and a day transition every DayLength,
// until the context is cancelled. Events are delivered serially, matching the
// real engine's contract.
func (e *Engine) Run(ctx context.Context, host Host) error {
	if err := host.Bootstrap(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	dayTimer := time.NewTicker(e.cfg.DayLength)
	defer dayTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			host.Tick(ctx)
		case <-dayTimer.C:
			e.runDayTransition(ctx, host)
		}
	}
}

// runDayTransition replays the four-stage day lifecycle with short fixed
// gaps; the simulator's clients always keep up
func (e *Engine) runDayTransition(ctx context.Context, host Host) {
	e.logger.Info("sim day ending")
	host.DayEnding(ctx)
	time.Sleep(time.Second)
	host.Saving(ctx)
	time.Sleep(time.Second)
	host.Saved(ctx)
	host.DayStarted(ctx)
}

func (e *Engine) ConnectedPlayers() []model.PlayerID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.PlayerID, len(e.players))
	copy(out, e.players)
	return out
}

func (e *Engine) Kick(id model.PlayerID, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, p := range e.players {
		if p == id {
			e.players = append(e.players[:i], e.players[i+1:]...)
			e.logger.Info("sim kicked player", slog.String("player", id.String()), slog.String("reason", reason))
			return nil
		}
	}
	return model.ErrNoActiveSession
}

func (e *Engine) BarrierCleared() []model.PlayerID {
	// Simulated clients always clear the barrier instantly
	return e.ConnectedPlayers()
}

func (e *Engine) ReadyStatus(id model.PlayerID) string {
	return engine.ReadyStatusReady
}

func (e *Engine) Whisper(id model.PlayerID, text string) error {
	e.logger.Info("sim whisper", slog.String("player", id.String()), slog.String("text", text))
	return nil
}

func (e *Engine) OwnerID() model.PlayerID {
	return e.cfg.Owner
}

func (e *Engine) PlayerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.players)
}

func (e *Engine) InviteCode() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.loaded {
		return ""
	}
	return e.invite
}

func (e *Engine) AcceptingConnections() bool {
	return true
}

func (e *Engine) SessionLoaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

func (e *Engine) CurrentPlayerLimit() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentLimit
}

func (e *Engine) SetCurrentPlayerLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentLimit = n
}

func (e *Engine) PeakPlayerLimit() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.peakLimit
}

func (e *Engine) SetPeakPlayerLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.peakLimit = n
}

func (e *Engine) SetInterpolationTicks(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interpTicks = n
}

func (e *Engine) SetBroadcastRate(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.broadcast = n
}

func (e *Engine) LoadMostRecentSave(ctx context.Context) error {
	// The simulator has no saves; callers fall back to a fresh session
	return model.ErrNoSaveAvailable
}

func (e *Engine) CreateSession(ctx context.Context, cfg engine.NewSessionConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = true
	e.players = []model.PlayerID{e.cfg.Owner}
	e.logger.Info("sim session created",
		slog.String("name", cfg.Name),
		slog.Int("max_players", cfg.MaxPlayers),
	)
	return nil
}
