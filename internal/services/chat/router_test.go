package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/coophost-go/internal/engine/enginetest"
	"github.com/mcoot/coophost-go/internal/model"
	"github.com/mcoot/coophost-go/internal/testutil"
)

type RouterSuite struct {
	suite.Suite
	engine *enginetest.Fake
	router *Router
	ctx    context.Context
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.engine = enginetest.New(1)
	s.router = New(s.engine, testutil.NopLogger())
	s.ctx = context.Background()
}

// Registration tests

func (s *RouterSuite) TestRegisterCommand() {
	err := s.router.RegisterCommand("ping", "reply with pong", func(ctx context.Context, msg model.ReceivedMessage) error {
		return nil
	})
	s.Require().NoError(err)
}

func (s *RouterSuite) TestDuplicateRegistrationFails() {
	var fired string
	register := func(tag string) error {
		return s.router.RegisterCommand("ping", "reply with pong", func(ctx context.Context, msg model.ReceivedMessage) error {
			fired = tag
			return nil
		})
	}

	s.Require().NoError(register("first"))
	s.ErrorIs(register("second"), model.ErrCommandRegistered)

	// Only the first registration remains dispatchable
	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 2, Text: "!ping"})
	s.Equal("first", fired)
}

func (s *RouterSuite) TestHelpNameIsReserved() {
	err := s.router.RegisterCommand(HelpCommand, "shadow help", func(ctx context.Context, msg model.ReceivedMessage) error {
		return nil
	})
	s.ErrorIs(err, model.ErrCommandRegistered)
}

// Dispatch tests

func (s *RouterSuite) TestDispatchInvokesMatchingHandler() {
	var got model.ReceivedMessage
	_ = s.router.RegisterCommand("kick", "kick a player", func(ctx context.Context, msg model.ReceivedMessage) error {
		got = msg
		return nil
	})

	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 3, Text: "!kick 42"})

	s.Equal(model.PlayerID(3), got.Sender)
	s.Equal([]string{"42"}, got.Args)
}

func (s *RouterSuite) TestOrdinaryChatTriggersNothing() {
	fired := false
	_ = s.router.RegisterCommand("hello", "greet", func(ctx context.Context, msg model.ReceivedMessage) error {
		fired = true
		return nil
	})

	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 3, Text: "hello"})
	s.False(fired)
}

func (s *RouterSuite) TestUnknownCommandIsSilentlyIgnored() {
	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 3, Text: "!nosuch"})
	s.Empty(s.engine.Whispers)
}

func (s *RouterSuite) TestHandlerErrorDoesNotStopDispatch() {
	_ = s.router.RegisterCommand("boom", "always fails", func(ctx context.Context, msg model.ReceivedMessage) error {
		return errors.New("boom")
	})

	// Must not panic or propagate
	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 3, Text: "!boom"})
}

// Help tests

func (s *RouterSuite) TestHelpListsEveryRegisteredCommand() {
	_ = s.router.RegisterCommand("kick", "kick a player", func(ctx context.Context, msg model.ReceivedMessage) error { return nil })
	_ = s.router.RegisterCommand("admins", "list admins", func(ctx context.Context, msg model.ReceivedMessage) error { return nil })

	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 5, Text: "!help"})

	s.Require().Len(s.engine.Whispers, 1)
	s.Equal(model.PlayerID(5), s.engine.Whispers[0].ID)
	s.Contains(s.engine.Whispers[0].Text, "!help")
	s.Contains(s.engine.Whispers[0].Text, "!kick - kick a player")
	s.Contains(s.engine.Whispers[0].Text, "!admins - list admins")
}

func (s *RouterSuite) TestHelpWithArgsFiltersToNamedCommands() {
	_ = s.router.RegisterCommand("kick", "kick a player", func(ctx context.Context, msg model.ReceivedMessage) error { return nil })
	_ = s.router.RegisterCommand("admins", "list admins", func(ctx context.Context, msg model.ReceivedMessage) error { return nil })

	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 5, Text: "!help kick"})

	s.Require().Len(s.engine.Whispers, 1)
	s.Equal("!kick - kick a player", s.engine.Whispers[0].Text)
}

func (s *RouterSuite) TestHelpForUnregisteredNameSendsNothing() {
	s.router.Dispatch(s.ctx, model.ChatMessage{Sender: 5, Text: "!help foo"})
	s.Empty(s.engine.Whispers)
}
