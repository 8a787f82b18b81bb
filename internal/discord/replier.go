package discord

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// interactionReplier answers one interaction: the first reply responds to it,
// later ones edit that response.
type interactionReplier struct {
	api         InteractionAPI
	interaction *discordgo.Interaction
	replied     atomic.Bool
}

func newReplier(api InteractionAPI, i *discordgo.Interaction) *interactionReplier {
	return &interactionReplier{api: api, interaction: i}
}

func (r *interactionReplier) Reply(ctx context.Context, text string) error {
	err := r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: text},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	r.replied.Store(true)
	return nil
}

func (r *interactionReplier) EditReply(ctx context.Context, text string) error {
	_, err := r.api.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{Content: &text}, discordgo.WithContext(ctx))
	return err
}

func (r *interactionReplier) Replied() bool {
	return r.replied.Load()
}
