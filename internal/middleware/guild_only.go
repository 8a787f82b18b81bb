package middleware

import (
	"context"

	"server-herald/pkg/cmd"
)

const guildOnlyMessage = "This command can only be used in a server."

// WithGuildOnly refuses invocations from direct messages.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if inv.GuildID == "" {
				if inv.Reply == nil {
					return nil
				}
				return cmd.Respond(ctx, inv.Reply, guildOnlyMessage)
			}
			return c.Run(ctx, inv)
		})
	}
}
