package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	st "server-herald/internal/storagetypes"
	"server-herald/pkg/cmd"
)

const errorsShown = 5

// ErrorSource reads recorded error records.
type ErrorSource interface {
	GetErrors(guildID string) ([]st.ErrorRecord, error)
}

type ErrorsCommand struct {
	store ErrorSource
}

func NewErrors(store ErrorSource) *ErrorsCommand {
	return &ErrorsCommand{store: store}
}

func (c *ErrorsCommand) Name() string        { return "errors" }
func (c *ErrorsCommand) Description() string { return "Show the latest command errors in this server" }
func (c *ErrorsCommand) Category() string    { return categoryMaintenance }

func (c *ErrorsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	perm := int64(discordgo.PermissionManageServer)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		Type:                     discordgo.ChatApplicationCommand,
		DefaultMemberPermissions: &perm,
	}
}

func (c *ErrorsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	records, err := c.store.GetErrors(inv.GuildID)
	if err != nil {
		return fmt.Errorf("failed to read errors: %w", err)
	}
	if len(records) == 0 {
		return cmd.Respond(ctx, inv.Reply, "No errors recorded. 🎉")
	}
	if len(records) > errorsShown {
		records = records[len(records)-errorsShown:]
	}

	var sb strings.Builder
	sb.WriteString("**Latest errors**\n")
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		name := r.Command
		if name == "" {
			name = r.Source
		}
		fmt.Fprintf(&sb, "`%s` **%s**: %s\n", r.Datetime.Format("2006-01-02 15:04:05"), name, r.Message)
	}
	return cmd.Respond(ctx, inv.Reply, strings.TrimRight(sb.String(), "\n"))
}
