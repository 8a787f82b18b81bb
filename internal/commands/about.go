package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-herald/internal/version"
	"server-herald/pkg/cmd"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Shows info about the bot" }
func (c *AboutCommand) Category() string    { return categoryInfo }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *AboutCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return cmd.Respond(ctx, inv.Reply, buildAboutMessage())
}

func buildAboutMessage() string {
	buildDate := "unknown"
	if version.BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, version.BuildDate); err == nil {
			buildDate = t.Format("2006-01-02")
		} else {
			buildDate = "invalid date"
		}
	}

	goVer := "unknown"
	if version.GoVersion != "" {
		goVer = strings.TrimPrefix(version.GoVersion, "go")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ℹ️ **%s** — %s\n", version.AppName, version.AppDescription)
	fmt.Fprintf(&sb, "Release: %s (Go %s)", buildDate, goVer)
	if version.Commit != "" {
		fmt.Fprintf(&sb, ", commit `%s`", version.Commit)
	}
	return sb.String()
}
