package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"server-herald/internal/version"
	"server-herald/pkg/cmd"
)

type HelpCommand struct {
	list func() []cmd.Command
}

// NewHelp creates the help command. list is called on every run, so it can
// read a table that is built after the command itself.
func NewHelp(list func() []cmd.Command) *HelpCommand {
	return &HelpCommand{list: list}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Category() string    { return categoryInfo }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return cmd.Respond(ctx, inv.Reply, buildHelpByCategory(c.list()))
}

func buildHelpByCategory(all []cmd.Command) string {
	sorted := append([]cmd.Command(nil), all...)
	SortByCategory(sorted)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s Help**\n", version.AppName))
	current := ""
	for _, c := range sorted {
		if cat := CategoryOf(c); cat != current {
			current = cat
			sb.WriteString(fmt.Sprintf("\n**%s**\n", cat))
		}
		sb.WriteString(fmt.Sprintf("`/%s` - %s\n", c.Name(), c.Description()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
