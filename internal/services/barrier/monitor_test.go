package barrier

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/coophost-go/internal/dependencies/mocks"
	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/engine/enginetest"
	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/testutil"
)

type MonitorSuite struct {
	suite.Suite
	engine  *enginetest.Fake
	clock   *mocks.MockClock
	monitor *Monitor
}

func TestMonitorSuite(t *testing.T) {
	suite.Run(t, new(MonitorSuite))
}

func (s *MonitorSuite) SetupTest() {
	s.engine = enginetest.New(1)
	s.engine.Connect(1, 2, 3)
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.monitor = New(s.engine, s.clock, DefaultConfig(), testutil.NopLogger())
}

// Barrier phase tests

func (s *MonitorSuite) TestBarrierExpiryKicksOnlyStragglers() {
	s.engine.Cleared = []model.PlayerID{1, 3}

	s.monitor.DayEnding()
	s.clock.Advance(20 * time.Second)

	s.Equal([]model.PlayerID{2}, s.engine.KickedIDs())
	s.Equal(PhaseIdle, s.monitor.Phase())
}

func (s *MonitorSuite) TestBarrierExpiryKicksEachStragglerOnce() {
	s.monitor.DayEnding()
	s.clock.Advance(20 * time.Second)

	s.Len(s.engine.Kicks, 3)

	// A later day must not re-kick; the roster is empty now anyway
	s.monitor.DayEnding()
	s.clock.Advance(20 * time.Second)
	s.Len(s.engine.Kicks, 3)
}

func (s *MonitorSuite) TestSavingBeforeExpiryCancelsBarrierTimer() {
	s.monitor.DayEnding()
	s.clock.Advance(19 * time.Second)
	s.monitor.Saving()

	// The old barrier deadline passing must be a no-op
	s.clock.Advance(2 * time.Second)

	s.Empty(s.engine.Kicks)
	s.Equal(PhaseAwaitingSaveReady, s.monitor.Phase())
}

func (s *MonitorSuite) TestBarrierExpiryBeforeSavingWins() {
	s.monitor.DayEnding()
	s.clock.Advance(20 * time.Second)

	// The engine's late Saving must not open a save-ready window
	s.monitor.Saving()

	s.Equal(PhaseIdle, s.monitor.Phase())
	s.Len(s.engine.Kicks, 3)
}

// Save-ready phase tests

func (s *MonitorSuite) TestSavedBeforeExpiryKicksNobody() {
	s.monitor.DayEnding()
	s.monitor.Saving()

	// Readiness flags are irrelevant once Saved fires in time
	s.engine.Readiness[1] = "busy"

	s.clock.Advance(59 * time.Second)
	s.monitor.Saved()
	s.clock.Advance(5 * time.Second)

	s.Empty(s.engine.Kicks)
	s.Equal(PhaseIdle, s.monitor.Phase())
}

func (s *MonitorSuite) TestSaveReadyExpiryKicksUnreadyPlayers() {
	s.engine.Readiness[1] = engine.ReadyStatusReady
	s.engine.Readiness[3] = engine.ReadyStatusReady

	s.monitor.DayEnding()
	s.monitor.Saving()
	s.clock.Advance(60 * time.Second)

	s.Equal([]model.PlayerID{2}, s.engine.KickedIDs())
	s.Equal(PhaseIdle, s.monitor.Phase())
}

func (s *MonitorSuite) TestKickFailureIsTolerated() {
	s.engine.KickErr = errors.New("already disconnected")

	s.monitor.DayEnding()
	s.clock.Advance(20 * time.Second)

	s.Empty(s.engine.Kicks)
	s.Equal(PhaseIdle, s.monitor.Phase())
}

// Window lifecycle tests

func (s *MonitorSuite) TestStaleTimerFromPreviousDayIsCancelled() {
	s.monitor.DayEnding()
	s.clock.Advance(10 * time.Second)

	// New day starts before the previous window resolved
	s.monitor.DayEnding()
	s.engine.Cleared = []model.PlayerID{1, 2, 3}

	// Old deadline passes; everyone has cleared the new barrier
	s.clock.Advance(10 * time.Second)
	s.Empty(s.engine.Kicks)

	// Only the new window's deadline may fire
	s.engine.Cleared = nil
	s.clock.Advance(10 * time.Second)
	s.Len(s.engine.Kicks, 3)
}

func (s *MonitorSuite) TestSkipNextWindowSuppressesOneDay() {
	s.monitor.SkipNextWindow()

	s.monitor.DayEnding()
	s.Equal(PhaseIdle, s.monitor.Phase())
	s.monitor.Saving()
	s.monitor.Saved()
	s.clock.Advance(2 * time.Minute)
	s.Empty(s.engine.Kicks)

	// The following day is monitored again
	s.monitor.DayEnding()
	s.Equal(PhaseAwaitingBarrier, s.monitor.Phase())
}

func (s *MonitorSuite) TestSavingWithoutWindowIsIgnored() {
	s.monitor.Saving()
	s.Equal(PhaseIdle, s.monitor.Phase())
	s.Equal(0, s.clock.PendingTimers())
}

func (s *MonitorSuite) TestSavedRetiresWindowCompletely() {
	s.monitor.DayEnding()
	s.monitor.Saving()
	s.monitor.Saved()

	s.Equal(0, s.clock.PendingTimers())
}

func (s *MonitorSuite) TestFullDayCycleLeavesNoTimers() {
	s.engine.Cleared = []model.PlayerID{1, 2, 3}
	s.engine.Readiness[1] = engine.ReadyStatusReady
	s.engine.Readiness[2] = engine.ReadyStatusReady
	s.engine.Readiness[3] = engine.ReadyStatusReady

	for day := 0; day < 3; day++ {
		s.monitor.DayEnding()
		s.clock.Advance(time.Second)
		s.monitor.Saving()
		s.clock.Advance(time.Second)
		s.monitor.Saved()
	}

	s.Empty(s.engine.Kicks)
	s.Equal(0, s.clock.PendingTimers())
}
