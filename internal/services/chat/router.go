package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/model"
)

// HelpCommand is the name of the built-in help command
const HelpCommand = "help"

// Handler is invoked for a dispatched command with the parsed message.
// Arguments are available on the message as Name/Args.
type Handler func(ctx context.Context, msg model.ReceivedMessage) error

type command struct {
	name        string
	description string
	handler     Handler
}

// Router parses the prefix command grammar out of inbound chat and dispatches
// to registered handlers. The registry is append-only for the process
// lifetime; a duplicate name is a programming error surfaced at registration,
// not at dispatch.
type Router struct {
	engine engine.Engine
	logger *slog.Logger

	commands []command
	names    map[string]struct{}
}

// New creates a router with the built-in help command registered
func New(eng engine.Engine, logger *slog.Logger) *Router {
	r := &Router{
		engine: eng,
		logger: logger,
		names:  make(map[string]struct{}),
	}

	// Registering into an empty registry cannot collide
	_ = r.RegisterCommand(HelpCommand, "list available commands, or describe the named ones", r.handleHelp)

	return r
}

// RegisterCommand adds a command to the registry. Names are case-sensitive
// and must be unique; registering a duplicate fails and leaves the original
// handler in place.
func (r *Router) RegisterCommand(name, description string, handler Handler) error {
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("register %q: %w", name, model.ErrCommandRegistered)
	}

	r.names[name] = struct{}{}
	r.commands = append(r.commands, command{
		name:        name,
		description: description,
		handler:     handler,
	})
	return nil
}

// Dispatch routes one inbound chat message. Ordinary chat (no prefix) and
// unknown command names are ignored without any reply. Handler failures are
// logged and never propagate to the tick thread.
func (r *Router) Dispatch(ctx context.Context, msg model.ChatMessage) {
	received := model.ParseMessage(msg)
	if !received.IsCommand {
		return
	}

	// Names are unique by contract, but the loop intentionally keeps going
	// after a match rather than assuming it
	for _, cmd := range r.commands {
		if cmd.name != received.Name {
			continue
		}
		if err := cmd.handler(ctx, received); err != nil {
			r.logger.Warn("chat command failed",
				slog.String("command", cmd.name),
				slog.String("sender", received.Sender.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// UsageLines returns usage text for the named commands, or for every
// registered command when names is empty. Unknown names contribute nothing.
func (r *Router) UsageLines(names []string) []string {
	var lines []string
	for _, cmd := range r.commands {
		if len(names) > 0 && !slices.Contains(names, cmd.name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%c%s - %s", model.CommandPrefix, cmd.name, cmd.description))
	}
	return lines
}

// handleHelp replies privately to the requester with usage text
func (r *Router) handleHelp(ctx context.Context, msg model.ReceivedMessage) error {
	lines := r.UsageLines(msg.Args)
	if len(lines) == 0 {
		return nil
	}
	return r.engine.Whisper(msg.Sender, strings.Join(lines, "\n"))
}
