package telemetry

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Appender accepts records; *batch.Emitter[Record] satisfies it.
type Appender interface {
	Append(ctx context.Context, rec Record) error
}

// ChannelResolver looks a channel up, typically from the session state cache.
type ChannelResolver func(channelID string) (*discordgo.Channel, error)

// MessageLogger turns MessageCreate events into telemetry records.
type MessageLogger struct {
	appender Appender
	channel  ChannelResolver
	selfID   func() string
}

// NewMessageLogger creates a logger. selfID returns the bot's own user ID so its
// messages are skipped; it may be nil.
func NewMessageLogger(appender Appender, channel ChannelResolver, selfID func() string) *MessageLogger {
	return &MessageLogger{appender: appender, channel: channel, selfID: selfID}
}

// Handle is an eventbus.Handler for MessageCreate events.
func (l *MessageLogger) Handle(ctx context.Context, payload any) error {
	m, ok := payload.(*discordgo.MessageCreate)
	if !ok || m.Message == nil || m.GuildID == "" {
		return nil
	}
	if l.selfID != nil && m.Author != nil && m.Author.ID == l.selfID() {
		return nil
	}

	ch, err := l.channel(m.ChannelID)
	if err != nil {
		return fmt.Errorf("resolve channel %s: %w", m.ChannelID, err)
	}
	if ch.Type != discordgo.ChannelTypeGuildText {
		return nil
	}

	return l.appender.Append(ctx, Record{
		ChannelID:   m.ChannelID,
		ChannelName: ch.Name,
		Timestamp:   m.Timestamp.UnixMilli(),
	})
}
