package discord

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	channelID string
	content   string
	embed     *discordgo.MessageEmbed
}

type fakeAPI struct {
	mu       sync.Mutex
	responds []*discordgo.InteractionResponse
	edits    []string
	sent     []sentMessage
	dms      []string
	failWith error
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.responds = append(f.responds, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.edits = append(f.edits, *edit.Content)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (f *fakeAPI) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, embed: embed})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeAPI) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, recipientID)
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

type fakeLookup struct {
	channels map[string]*discordgo.Channel
	guilds   map[string]*discordgo.Guild
	members  map[string]*discordgo.Member
	messages map[string]*discordgo.Message
}

var errNotFound = errors.New("not found")

func (l fakeLookup) Channel(id string) (*discordgo.Channel, error) {
	if ch, ok := l.channels[id]; ok {
		return ch, nil
	}
	return nil, errNotFound
}

func (l fakeLookup) Guild(id string) (*discordgo.Guild, error) {
	if g, ok := l.guilds[id]; ok {
		return g, nil
	}
	return nil, errNotFound
}

func (l fakeLookup) Member(_, userID string) (*discordgo.Member, error) {
	if m, ok := l.members[userID]; ok {
		return m, nil
	}
	return nil, errNotFound
}

func (l fakeLookup) Message(_, messageID string) (*discordgo.Message, error) {
	if m, ok := l.messages[messageID]; ok {
		return m, nil
	}
	return nil, errNotFound
}

// snowflakeAt builds an ID whose embedded timestamp is t.
func snowflakeAt(t time.Time) string {
	const discordEpoch = 1420070400000
	return strconv.FormatInt((t.UnixMilli()-discordEpoch)<<22, 10)
}
