package engine

import (
	"context"

	"github.com/mcoot/coophost-go/internal/model"
)

// ReadyStatusReady is the readiness value a participant reports once their
// client has finished the end-of-night sequence
const ReadyStatusReady = "ready"

// NewSessionConfig describes a session to create from scratch
type NewSessionConfig struct {
	Name       string
	MaxPlayers int
}

// Engine is the external game runtime this control plane is embedded in. It
// owns the connections, the save files and the day-transition sequence; this
// layer only observes and issues narrow commands. All accessors are safe to
// call before a session is loaded and return zero values in that state.
//
// The engine delivers ticks, day-lifecycle events and chat messages serially
// on a single logical thread; implementations of this interface must tolerate
// Kick and the read-only accessors being called from timer goroutines as well.
type Engine interface {
	// Roster

	// ConnectedPlayers returns the identifiers of all currently connected
	// participants
	ConnectedPlayers() []model.PlayerID

	// Kick forcibly disconnects a participant. Kicking a participant that
	// has already disconnected is an error the caller is expected to
	// tolerate.
	Kick(id model.PlayerID, reason string) error

	// BarrierCleared returns the participants that have completed the
	// pre-save synchronization barrier for the current day transition
	BarrierCleared() []model.PlayerID

	// ReadyStatus returns a participant's end-of-night readiness value
	ReadyStatus(id model.PlayerID) string

	// Whisper sends a private text message to one participant
	Whisper(id model.PlayerID, text string) error

	// Session state

	// OwnerID returns the identifier of the participant who created the
	// loaded save
	OwnerID() model.PlayerID

	PlayerCount() int
	InviteCode() string
	AcceptingConnections() bool
	SessionLoaded() bool

	// Network parameters

	CurrentPlayerLimit() int
	SetCurrentPlayerLimit(n int)
	PeakPlayerLimit() int
	SetPeakPlayerLimit(n int)
	SetInterpolationTicks(n int)
	SetBroadcastRate(n int)

	// Save lifecycle

	// LoadMostRecentSave loads the newest compatible save, returning
	// model.ErrNoSaveAvailable when there is none
	LoadMostRecentSave(ctx context.Context) error

	// CreateSession starts a fresh session with the given configuration
	CreateSession(ctx context.Context, cfg NewSessionConfig) error
}
