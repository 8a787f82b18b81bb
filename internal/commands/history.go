package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	st "server-herald/internal/storagetypes"
	"server-herald/pkg/cmd"
)

const historyShown = 10

// HistorySource reads recorded command executions.
type HistorySource interface {
	GetCommandsHistory(guildID string) ([]st.CommandHistory, error)
}

type HistoryCommand struct {
	store HistorySource
}

func NewHistory(store HistorySource) *HistoryCommand {
	return &HistoryCommand{store: store}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently used commands in this server" }
func (c *HistoryCommand) Category() string    { return categoryMaintenance }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageServer)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		Type:                     discordgo.ChatApplicationCommand,
		DefaultMemberPermissions: &perm,
	}
}

func (c *HistoryCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	entries, err := c.store.GetCommandsHistory(inv.GuildID)
	if err != nil {
		return fmt.Errorf("failed to read command history: %w", err)
	}
	if len(entries) == 0 {
		return cmd.Respond(ctx, inv.Reply, "No commands recorded yet.")
	}
	if len(entries) > historyShown {
		entries = entries[len(entries)-historyShown:]
	}

	var sb strings.Builder
	sb.WriteString("**Recent commands**\n")
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		channel := e.ChannelName
		if channel == "" {
			channel = e.ChannelID
		}
		fmt.Fprintf(&sb, "`%s` %s used `/%s` in #%s\n", e.Datetime.Format("2006-01-02 15:04"), e.Username, e.Command, channel)
	}
	return cmd.Respond(ctx, inv.Reply, strings.TrimRight(sb.String(), "\n"))
}
