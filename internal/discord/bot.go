package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"server-herald/pkg/eventbus"
)

// Bot owns the gateway session and republishes its events on the bus.
type Bot struct {
	dg  *discordgo.Session
	bus *eventbus.Bus
}

// New creates a session for token. The connection is opened by Run.
func New(token string, bus *eventbus.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	return &Bot{dg: dg, bus: bus}, nil
}

// Session exposes the underlying session for REST calls and state lookups.
func (b *Bot) Session() *discordgo.Session {
	return b.dg
}

// SelfID returns the bot user's ID, or "" before the Ready event.
func (b *Bot) SelfID() string {
	if u := b.dg.State.User; u != nil {
		return u.ID
	}
	return ""
}

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	for _, h := range handlers(ctx, b.bus) {
		b.dg.AddHandler(h)
	}

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Closing Discord session...")
	return nil
}

// handlers returns one discordgo handler per forwarded event type.
func handlers(ctx context.Context, bus *eventbus.Bus) []any {
	return []any{
		forward[*discordgo.InteractionCreate](ctx, bus, KindInteractionCreate),
		forward[*discordgo.MessageCreate](ctx, bus, KindMessageCreate),
		forward[*discordgo.Ready](ctx, bus, KindReady),
		forward[*discordgo.GuildCreate](ctx, bus, KindGuildCreate),
		forward[*discordgo.GuildMemberAdd](ctx, bus, KindGuildMemberAdd),
		forward[*discordgo.GuildMemberRemove](ctx, bus, KindGuildMemberRemove),
		forward[*discordgo.ThreadCreate](ctx, bus, KindThreadCreate),
		forward[*discordgo.ThreadDelete](ctx, bus, KindThreadDelete),
	}
}

func forward[E any](ctx context.Context, bus *eventbus.Bus, kind eventbus.Kind) func(*discordgo.Session, E) {
	return func(_ *discordgo.Session, e E) {
		bus.Publish(ctx, kind, e)
	}
}
