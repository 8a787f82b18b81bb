package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-herald/pkg/cmd"
)

type PingCommand struct {
	latency func() time.Duration
}

// NewPing creates the ping command; latency usually is Session.HeartbeatLatency.
func NewPing(latency func() time.Duration) *PingCommand {
	return &PingCommand{latency: latency}
}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check bot latency" }
func (c *PingCommand) Category() string    { return categoryMaintenance }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return cmd.Respond(ctx, inv.Reply, fmt.Sprintf("🏓 Pong! %dms", c.latency().Milliseconds()))
}
