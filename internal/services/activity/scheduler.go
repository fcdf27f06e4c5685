package activity

import (
	"context"
	"log/slog"
)

// Activity is a small periodic behavior unit with lifecycle hooks tied to
// day transitions and ticks
type Activity interface {
	// Name identifies the activity in logs
	Name() string

	// TickInterval is the minimum number of scheduler ticks between OnTick
	// runs; values below 1 mean every tick
	TickInterval() int

	// OnEnabled fires once, when the containing save finishes loading
	OnEnabled(ctx context.Context) error

	// OnTick fires on the activity's tick cadence while enabled
	OnTick(ctx context.Context) error

	// OnDayStart fires once per completed day transition
	OnDayStart(ctx context.Context) error
}

type registration struct {
	activity Activity
	// ticks since OnTick last ran
	elapsed int
}

// Scheduler runs registered activities off the engine's tick and
// day-lifecycle events. Activities are isolated from one another: a failure
// or panic in one is logged and treated as that activity's no-op for the
// pass, never preventing the others from running.
type Scheduler struct {
	logger *slog.Logger

	activities []*registration
	enabled    bool
}

// New creates an empty scheduler
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds an activity. Call before EnableAll; activities stay
// registered and enabled for the process lifetime.
func (s *Scheduler) Register(a Activity) {
	s.activities = append(s.activities, &registration{activity: a})
}

// EnableAll enables every registered activity, invoking OnEnabled in
// registration order. Invoked exactly once, when a save finishes loading.
func (s *Scheduler) EnableAll(ctx context.Context) {
	if s.enabled {
		return
	}
	s.enabled = true

	for _, reg := range s.activities {
		s.run(ctx, reg.activity, "enable", reg.activity.OnEnabled)
	}
}

// Tick advances every enabled activity's tick counter, running OnTick for
// those whose interval has elapsed
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.enabled {
		return
	}

	for _, reg := range s.activities {
		reg.elapsed++
		if reg.elapsed < reg.activity.TickInterval() {
			continue
		}
		reg.elapsed = 0
		s.run(ctx, reg.activity, "tick", reg.activity.OnTick)
	}
}

// DayStart runs OnDayStart on every enabled activity
func (s *Scheduler) DayStart(ctx context.Context) {
	if !s.enabled {
		return
	}

	for _, reg := range s.activities {
		s.run(ctx, reg.activity, "day start", reg.activity.OnDayStart)
	}
}

// run invokes one activity hook, containing panics and logging failures
func (s *Scheduler) run(ctx context.Context, a Activity, stage string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("activity panicked",
				slog.String("activity", a.Name()),
				slog.String("stage", stage),
				slog.Any("error", r),
			)
		}
	}()

	if err := fn(ctx); err != nil {
		s.logger.Warn("activity failed",
			slog.String("activity", a.Name()),
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
	}
}
