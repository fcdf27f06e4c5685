package model

import "strings"

// CommandPrefix marks chat text as a command
const CommandPrefix = '!'

// ChatMessage is a raw inbound chat message as delivered by the engine
type ChatMessage struct {
	Sender PlayerID
	Text   string
}

// ReceivedMessage is a chat message after command parsing. When IsCommand is
// true, Name holds the first token with the prefix stripped and Args the
// remaining whitespace-delimited tokens. There is no quoting support;
// arguments containing whitespace cannot be expressed.
type ReceivedMessage struct {
	ChatMessage

	IsCommand bool
	Name      string
	Args      []string
}

// ParseMessage derives the command view of a chat message. Text that does not
// begin with the command prefix is ordinary chat and passes through with
// IsCommand false.
func ParseMessage(msg ChatMessage) ReceivedMessage {
	received := ReceivedMessage{ChatMessage: msg}

	if len(msg.Text) == 0 || msg.Text[0] != CommandPrefix {
		return received
	}

	tokens := strings.Fields(msg.Text[1:])
	if len(tokens) == 0 {
		// A bare prefix with no name is not a dispatchable command
		return received
	}

	received.IsCommand = true
	received.Name = tokens[0]
	received.Args = tokens[1:]
	return received
}
