package middleware

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	st "server-herald/internal/storagetypes"
	"server-herald/pkg/cmd"
)

// HistorySink stores command executions.
type HistorySink interface {
	AppendCommandHistory(guildID string, entry st.CommandHistory) error
}

// Lookup resolves channel and guild names; discord.SessionLookup satisfies it.
type Lookup interface {
	Channel(channelID string) (*discordgo.Channel, error)
	Guild(guildID string) (*discordgo.Guild, error)
}

// WithCommandHistory records every successful guild invocation. Failing to
// record is logged and does not fail the command.
func WithCommandHistory(sink HistorySink, lookup Lookup) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if err := c.Run(ctx, inv); err != nil {
				return err
			}
			if inv.GuildID == "" {
				return nil
			}

			entry := st.CommandHistory{
				ChannelID: inv.ChannelID,
				UserID:    inv.UserID,
				Username:  inv.Username,
				Command:   c.Name(),
				Datetime:  time.Now().UTC(),
			}
			if lookup != nil {
				if ch, err := lookup.Channel(inv.ChannelID); err == nil && ch != nil {
					entry.ChannelName = ch.Name
				}
				if g, err := lookup.Guild(inv.GuildID); err == nil && g != nil {
					entry.GuildName = g.Name
				}
			}
			if err := sink.AppendCommandHistory(inv.GuildID, entry); err != nil {
				log.Printf("[WARN] Failed to log command /%s: %v", c.Name(), err)
			}
			return nil
		})
	}
}
