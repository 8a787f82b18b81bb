package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

const maxMessageLength = 2000

// ChannelReporter posts diagnostic reports to a fixed channel.
type ChannelReporter struct {
	api       MessageAPI
	channelID string
}

func NewChannelReporter(api MessageAPI, channelID string) *ChannelReporter {
	return &ChannelReporter{api: api, channelID: channelID}
}

// Report implements dispatch.DiagnosticReporter.
func (r *ChannelReporter) Report(ctx context.Context, text string) error {
	_, err := r.api.ChannelMessageSend(r.channelID, truncate(text, maxMessageLength), discordgo.WithContext(ctx))
	return err
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
