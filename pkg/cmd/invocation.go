// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord slash, CLI, HTTP) is defined by adapters that wrap this.
package cmd

import "context"

// Replier is the output channel of a single invocation. The first message must go
// through Reply; every message after that edits the reply.
type Replier interface {
	Reply(ctx context.Context, text string) error
	EditReply(ctx context.Context, text string) error
	Replied() bool
}

// Respond sends text through r as a reply, or as an edit if a reply was already sent.
func Respond(ctx context.Context, r Replier, text string) error {
	if r.Replied() {
		return r.EditReply(ctx, text)
	}
	return r.Reply(ctx, text)
}

// Invocation is one inbound request to run a named command. Adapters fill it from
// their own event type and keep the raw event in Data.
type Invocation struct {
	Command   string
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Options   map[string]any
	Reply     Replier
	Data      any
}

// Command is the universal contract: identity plus execution. Permissions, flags,
// subcommands, and transport-specific registration stay in adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
