package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mcoot/coophost-go/internal/dependencies/clock"
	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/services/activity"
	"github.com/mcoot/coophost-go/internal/services/authz"
	"github.com/mcoot/coophost-go/internal/services/barrier"
	"github.com/mcoot/coophost-go/internal/services/chat"
	"github.com/mcoot/coophost-go/internal/services/status"
)

// debugSession is the fixed configuration used by the debug-forced fresh
// session path
var debugSession = engine.NewSessionConfig{
	Name:       "debug",
	MaxPlayers: 4,
}

// Config holds session manager configuration
type Config struct {
	// ForceNewSession skips save loading and always creates the fixed
	// debug session (debug path)
	ForceNewSession bool

	// NewSession is the configuration used when no save is loadable
	NewSession engine.NewSessionConfig

	// HealthInterval is the cadence of the liveness check
	HealthInterval time.Duration

	// DegradedExitAfter is how long the engine may continuously refuse
	// inbound connections before the process exits
	DegradedExitAfter time.Duration
}

// DefaultConfig returns default session manager configuration
func DefaultConfig() Config {
	return Config{
		HealthInterval:    10 * time.Second,
		DegradedExitAfter: 2 * time.Minute,
	}
}

// Manager owns startup sequencing and fans the engine's tick, day-lifecycle
// and chat events out to the other components. The engine delivers all of
// these serially on one logical thread.
type Manager struct {
	engine    engine.Engine
	authz     *authz.Service
	router    *chat.Router
	scheduler *activity.Scheduler
	monitor   *barrier.Monitor
	publisher *status.Publisher
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config

	// exit is swappable so tests can observe the fail-fast path
	exit func(code int)

	mu           sync.Mutex
	bootstrapped bool

	healthTicks   int
	degradedSince time.Time
}

// New creates a manager and registers its built-in chat commands on the
// router. A duplicate built-in name means the router was pre-populated with a
// conflicting command, which is a build-time mistake.
func New(
	eng engine.Engine,
	authzService *authz.Service,
	router *chat.Router,
	scheduler *activity.Scheduler,
	monitor *barrier.Monitor,
	publisher *status.Publisher,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) (*Manager, error) {
	if cfg.HealthInterval == 0 {
		cfg.HealthInterval = DefaultConfig().HealthInterval
	}
	if cfg.DegradedExitAfter == 0 {
		cfg.DegradedExitAfter = DefaultConfig().DegradedExitAfter
	}

	m := &Manager{
		engine:    eng,
		authz:     authzService,
		router:    router,
		scheduler: scheduler,
		monitor:   monitor,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		cfg:       cfg,
		exit:      os.Exit,
	}

	if err := m.registerCommands(); err != nil {
		return nil, err
	}
	return m, nil
}

// Bootstrap runs the one-time startup sequence once the title surface is
// ready: create or resume a session, load authorization, and enable the
// activities. Calling it again is a no-op.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.bootstrapped {
		m.mu.Unlock()
		m.logger.Debug("bootstrap already ran")
		return nil
	}
	m.bootstrapped = true
	m.mu.Unlock()

	fresh, err := m.startSession(ctx)
	if err != nil {
		return err
	}

	if err := m.authz.Load(ctx, m.engine.OwnerID()); err != nil {
		return err
	}

	if fresh {
		// The first day of a fresh session has no prior state for
		// clients to fall behind on
		m.monitor.SkipNextWindow()
	}

	m.scheduler.EnableAll(ctx)
	m.logger.Info("session bootstrapped",
		slog.Bool("fresh", fresh),
		slog.String("owner", m.engine.OwnerID().String()),
	)
	return nil
}

// startSession creates or resumes a session, reporting whether it is fresh
func (m *Manager) startSession(ctx context.Context) (bool, error) {
	if m.cfg.ForceNewSession {
		m.logger.Info("debug session forced")
		if err := m.engine.CreateSession(ctx, debugSession); err != nil {
			return false, fmt.Errorf("create debug session: %w", err)
		}
		return true, nil
	}

	if err := m.engine.LoadMostRecentSave(ctx); err != nil {
		m.logger.Warn("no save loaded, creating new session", slog.String("reason", err.Error()))
		if err := m.engine.CreateSession(ctx, m.cfg.NewSession); err != nil {
			return false, fmt.Errorf("create session: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// Tick handles one engine tick: activities run and the liveness check is
// advanced
func (m *Manager) Tick(ctx context.Context) {
	m.scheduler.Tick(ctx)

	m.healthTicks++
	if m.healthTicks >= int(m.cfg.HealthInterval/time.Second) {
		m.healthTicks = 0
		m.checkHealth()
	}
}

// DayEnding opens the day-transition barrier window
func (m *Manager) DayEnding(ctx context.Context) {
	m.monitor.DayEnding()
}

// Saving marks the barrier naturally cleared
func (m *Manager) Saving(ctx context.Context) {
	m.monitor.Saving()
}

// Saved retires the day-transition window
func (m *Manager) Saved(ctx context.Context) {
	m.monitor.Saved()
}

// DayStarted completes the day transition
func (m *Manager) DayStarted(ctx context.Context) {
	m.scheduler.DayStart(ctx)
}

// ChatMessage routes one inbound chat message through the command router
func (m *Manager) ChatMessage(ctx context.Context, msg model.ChatMessage) {
	m.router.Dispatch(ctx, msg)
}

// ReturnedToTitle handles the session unloading back to the title state. The
// offline snapshot is published immediately rather than on the next cadence
// tick.
func (m *Manager) ReturnedToTitle(ctx context.Context) {
	m.logger.Info("returned to title")
	m.publisher.PublishOffline(ctx)
}

// Degraded reports whether the engine is currently refusing inbound
// connections and for how long
func (m *Manager) Degraded() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.degradedSince.IsZero() {
		return 0, false
	}
	return m.clock.Now().Sub(m.degradedSince), true
}

// checkHealth tracks how long the engine has been refusing connections and
// fails fast once the threshold passes. In-process recovery of a broken
// accept state is unreliable; the external supervisor restarts us.
func (m *Manager) checkHealth() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine.AcceptingConnections() {
		if !m.degradedSince.IsZero() {
			m.logger.Info("engine accepting connections again")
			m.degradedSince = time.Time{}
		}
		return
	}

	now := m.clock.Now()
	if m.degradedSince.IsZero() {
		m.degradedSince = now
		m.logger.Warn("engine not accepting connections")
		return
	}

	if now.Sub(m.degradedSince) >= m.cfg.DegradedExitAfter {
		m.logger.Error("engine degraded past threshold, exiting for supervisor restart",
			slog.Duration("degraded_for", now.Sub(m.degradedSince)),
		)
		m.exit(0)
	}
}
