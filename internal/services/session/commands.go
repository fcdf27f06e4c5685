package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/coophost-go/internal/model"
)

// registerCommands installs the built-in privileged chat commands
func (m *Manager) registerCommands() error {
	commands := []struct {
		name        string
		description string
		handler     func(ctx context.Context, msg model.ReceivedMessage) error
	}{
		{"admins", "list the current admins", m.cmdAdmins},
		{"admin", "grant admin to a player: !admin <id>", m.cmdAdmin},
		{"unadmin", "revoke admin from a player: !unadmin <id>", m.cmdUnadmin},
		{"kick", "disconnect a player: !kick <id>", m.cmdKick},
	}

	for _, cmd := range commands {
		if err := m.router.RegisterCommand(cmd.name, cmd.description, cmd.handler); err != nil {
			return err
		}
	}
	return nil
}

// cmdAdmins lists the admins to anyone who asks
func (m *Manager) cmdAdmins(ctx context.Context, msg model.ReceivedMessage) error {
	admins := m.authz.ListAdmins()
	if len(admins) == 0 {
		return m.engine.Whisper(msg.Sender, "no admins assigned")
	}

	ids := make([]string, 0, len(admins))
	for _, id := range admins {
		ids = append(ids, id.String())
	}
	return m.engine.Whisper(msg.Sender, "admins: "+strings.Join(ids, ", "))
}

// cmdAdmin grants the admin role; restricted to existing admins
func (m *Manager) cmdAdmin(ctx context.Context, msg model.ReceivedMessage) error {
	target, ok := m.requireAdminWithTarget(msg)
	if !ok {
		return nil
	}

	if err := m.authz.AssignAdmin(ctx, target); err != nil {
		return err
	}
	return m.engine.Whisper(msg.Sender, fmt.Sprintf("%s is now an admin", target))
}

// cmdUnadmin revokes the admin role; demoting the owner stays a no-op
func (m *Manager) cmdUnadmin(ctx context.Context, msg model.ReceivedMessage) error {
	target, ok := m.requireAdminWithTarget(msg)
	if !ok {
		return nil
	}

	if m.authz.IsOwner(target) {
		return m.engine.Whisper(msg.Sender, "the session owner cannot be demoted")
	}

	if err := m.authz.UnassignAdmin(ctx, target); err != nil {
		return err
	}
	return m.engine.Whisper(msg.Sender, fmt.Sprintf("%s is no longer an admin", target))
}

// cmdKick disconnects a player; restricted to admins
func (m *Manager) cmdKick(ctx context.Context, msg model.ReceivedMessage) error {
	target, ok := m.requireAdminWithTarget(msg)
	if !ok {
		return nil
	}

	if err := m.engine.Kick(target, fmt.Sprintf("kicked by %s", msg.Sender)); err != nil {
		return m.engine.Whisper(msg.Sender, fmt.Sprintf("could not kick %s", target))
	}
	return m.engine.Whisper(msg.Sender, fmt.Sprintf("kicked %s", target))
}

// requireAdminWithTarget gates a command to admins and parses its single
// player-id argument, whispering the refusal or usage problem back privately
func (m *Manager) requireAdminWithTarget(msg model.ReceivedMessage) (model.PlayerID, bool) {
	if !m.authz.IsAdmin(msg.Sender) && !m.authz.IsOwner(msg.Sender) {
		_ = m.engine.Whisper(msg.Sender, "you are not allowed to do that")
		return 0, false
	}

	if len(msg.Args) != 1 {
		_ = m.engine.Whisper(msg.Sender, fmt.Sprintf("usage: !%s <player-id>", msg.Name))
		return 0, false
	}

	target, err := model.ParsePlayerID(msg.Args[0])
	if err != nil {
		_ = m.engine.Whisper(msg.Sender, fmt.Sprintf("%q is not a player id", msg.Args[0]))
		return 0, false
	}
	return target, true
}
