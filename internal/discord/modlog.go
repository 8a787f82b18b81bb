package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

const (
	EmbedColor = 0x5865f2
	unknown    = "`idk`"

	noLastMessage   = "`Could not retrieve last message`"
	embedFieldLimit = 1024
)

// ModLog posts thread lifecycle entries to the moderation log channel.
type ModLog struct {
	api       MessageAPI
	lookup    Lookup
	channelID string
}

// NewModLog creates a ModLog. With an empty channelID every handler is a no-op.
func NewModLog(api MessageAPI, lookup Lookup, channelID string) *ModLog {
	return &ModLog{api: api, lookup: lookup, channelID: channelID}
}

// ThreadCreated handles KindThreadCreate. Threads that merely became visible
// to the bot are ignored.
func (m *ModLog) ThreadCreated(ctx context.Context, payload any) error {
	e, ok := payload.(*discordgo.ThreadCreate)
	if !ok || e.Channel == nil || !e.NewlyCreated || m.channelID == "" {
		return nil
	}
	th := e.Channel

	title := "Thread created"
	if th.Type == discordgo.ChannelTypeGuildPrivateThread {
		title = "Private Thread created"
	}
	parent := "channel"
	if p, err := m.lookup.Channel(th.ParentID); err == nil && p != nil {
		parent = p.Name
	}

	return m.post(ctx, &discordgo.MessageEmbed{
		Title:       title,
		Description: th.Name,
		Color:       EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: m.ownerName(th)},
			{Name: "Created", Value: createdAt(th.ID)},
			{Name: "Link", Value: fmt.Sprintf("[View Thread in %s](%s)", parent, threadURL(th))},
			{Name: "Thread ID", Value: th.ID},
		},
	})
}

// ThreadDeleted handles KindThreadDelete. The gateway only sends the thread's
// ids, so details come from the cached copy when the state had one.
func (m *ModLog) ThreadDeleted(ctx context.Context, payload any) error {
	e, ok := payload.(*discordgo.ThreadDelete)
	if !ok || e.Channel == nil || m.channelID == "" {
		return nil
	}
	th := e.Channel
	if e.BeforeDelete != nil {
		th = e.BeforeDelete
	}

	return m.post(ctx, &discordgo.MessageEmbed{
		Title:       "Thread deleted",
		Description: th.Name,
		Color:       EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Created", Value: createdAt(th.ID)},
			{Name: "Owner", Value: m.ownerName(th)},
			{Name: "Messages", Value: strconv.Itoa(th.MessageCount)},
			{Name: "Last message", Value: m.lastMessage(th)},
			{Name: "Thread ID", Value: th.ID},
		},
	})
}

func (m *ModLog) post(ctx context.Context, embed *discordgo.MessageEmbed) error {
	if _, err := m.api.ChannelMessageSendEmbed(m.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("post mod log entry: %w", err)
	}
	return nil
}

func (m *ModLog) ownerName(th *discordgo.Channel) string {
	if th.OwnerID == "" {
		return unknown
	}
	member, err := m.lookup.Member(th.GuildID, th.OwnerID)
	if err != nil || member == nil || member.User == nil {
		return unknown
	}
	return member.User.Username
}

func (m *ModLog) lastMessage(th *discordgo.Channel) string {
	if th.LastMessageID == "" {
		return noLastMessage
	}
	var msg *discordgo.Message
	for _, cached := range th.Messages {
		if cached.ID == th.LastMessageID {
			msg = cached
			break
		}
	}
	if msg == nil {
		msg, _ = m.lookup.Message(th.ID, th.LastMessageID)
	}
	if msg == nil || msg.Content == "" {
		return noLastMessage
	}
	if r := []rune(msg.Content); len(r) > embedFieldLimit {
		return string(r[:embedFieldLimit-1]) + "…"
	}
	return msg.Content
}

func createdAt(id string) string {
	t, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return unknown
	}
	return t.UTC().Format("Mon Jan 02 2006")
}

func threadURL(th *discordgo.Channel) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s", th.GuildID, th.ID)
}
