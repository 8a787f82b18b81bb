package discord

import (
	"github.com/bwmarrin/discordgo"
)

// InteractionAPI is the part of *discordgo.Session used to answer interactions.
type InteractionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// MessageAPI is the part of *discordgo.Session used to post messages.
type MessageAPI interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Lookup resolves guild objects, preferring the state cache.
type Lookup interface {
	Channel(channelID string) (*discordgo.Channel, error)
	Guild(guildID string) (*discordgo.Guild, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	Message(channelID, messageID string) (*discordgo.Message, error)
}

// SessionLookup reads from the session state and falls back to REST.
type SessionLookup struct {
	S *discordgo.Session
}

func (l SessionLookup) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, err := l.S.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return l.S.Channel(channelID)
}

func (l SessionLookup) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := l.S.State.Guild(guildID); err == nil {
		return g, nil
	}
	return l.S.Guild(guildID)
}

func (l SessionLookup) Member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := l.S.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return l.S.GuildMember(guildID, userID)
}

func (l SessionLookup) Message(channelID, messageID string) (*discordgo.Message, error) {
	if m, err := l.S.State.Message(channelID, messageID); err == nil {
		return m, nil
	}
	return l.S.ChannelMessage(channelID, messageID)
}
