package enginetest

import (
	"context"
	"errors"
	"slices"

	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
)

// Kick records one forced disconnection issued against the fake
type Kick struct {
	ID     model.PlayerID
	Reason string
}

// Whisper records one private message sent through the fake
type Whisper struct {
	ID   model.PlayerID
	Text string
}

// Fake is an in-memory Engine for tests. State is plain exported fields so
// tests can arrange scenarios directly; commands issued by the code under
// test are recorded for assertions.
type Fake struct {
	Players   []model.PlayerID
	Cleared   []model.PlayerID
	Readiness map[model.PlayerID]string

	Owner        model.PlayerID
	Invite       string
	Accepting    bool
	Loaded       bool
	CurrentLimit int
	PeakLimit    int

	InterpolationTicks int
	BroadcastRate      int

	Kicks    []Kick
	Whispers []Whisper
	Created  []engine.NewSessionConfig

	KickErr    error
	WhisperErr error
	LoadErr    error
	CreateErr  error
}

// Ensure Fake implements Engine
var _ engine.Engine = (*Fake)(nil)

// New creates a Fake with an owner and an empty roster
func New(owner model.PlayerID) *Fake {
	return &Fake{
		Owner:     owner,
		Readiness: make(map[model.PlayerID]string),
		Accepting: true,
	}
}

// Connect adds participants to the roster
func (f *Fake) Connect(ids ...model.PlayerID) {
	f.Players = append(f.Players, ids...)
}

func (f *Fake) ConnectedPlayers() []model.PlayerID {
	return slices.Clone(f.Players)
}

// Kick records the disconnection and removes the participant from the roster
func (f *Fake) Kick(id model.PlayerID, reason string) error {
	if f.KickErr != nil {
		return f.KickErr
	}
	if !slices.Contains(f.Players, id) {
		return errors.New("player not connected")
	}
	f.Kicks = append(f.Kicks, Kick{ID: id, Reason: reason})
	f.Players = slices.DeleteFunc(f.Players, func(p model.PlayerID) bool { return p == id })
	return nil
}

func (f *Fake) BarrierCleared() []model.PlayerID {
	return slices.Clone(f.Cleared)
}

func (f *Fake) ReadyStatus(id model.PlayerID) string {
	return f.Readiness[id]
}

func (f *Fake) Whisper(id model.PlayerID, text string) error {
	if f.WhisperErr != nil {
		return f.WhisperErr
	}
	f.Whispers = append(f.Whispers, Whisper{ID: id, Text: text})
	return nil
}

func (f *Fake) OwnerID() model.PlayerID {
	return f.Owner
}

func (f *Fake) PlayerCount() int {
	return len(f.Players)
}

func (f *Fake) InviteCode() string {
	return f.Invite
}

func (f *Fake) AcceptingConnections() bool {
	return f.Accepting
}

func (f *Fake) SessionLoaded() bool {
	return f.Loaded
}

func (f *Fake) CurrentPlayerLimit() int {
	return f.CurrentLimit
}

func (f *Fake) SetCurrentPlayerLimit(n int) {
	f.CurrentLimit = n
}

func (f *Fake) PeakPlayerLimit() int {
	return f.PeakLimit
}

func (f *Fake) SetPeakPlayerLimit(n int) {
	f.PeakLimit = n
}

func (f *Fake) SetInterpolationTicks(n int) {
	f.InterpolationTicks = n
}

func (f *Fake) SetBroadcastRate(n int) {
	f.BroadcastRate = n
}

func (f *Fake) LoadMostRecentSave(ctx context.Context) error {
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.Loaded = true
	return nil
}

func (f *Fake) CreateSession(ctx context.Context, cfg engine.NewSessionConfig) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Created = append(f.Created, cfg)
	f.Loaded = true
	return nil
}

// KickedIDs returns just the identifiers from the recorded kicks
func (f *Fake) KickedIDs() []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(f.Kicks))
	for _, k := range f.Kicks {
		ids = append(ids, k.ID)
	}
	return ids
}
