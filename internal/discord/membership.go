package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// newcomerWindow is both the minimum account age to chat and the stay below
// which a departing member is seen off.
const newcomerWindow = 5 * time.Minute

const farewellGIF = "https://media.giphy.com/media/fDO2Nk0ImzvvW/giphy.gif"

// Membership greets brand-new accounts and sees off members who leave right
// after joining.
type Membership struct {
	api    MessageAPI
	lookup Lookup
	now    func() time.Time
}

func NewMembership(api MessageAPI, lookup Lookup) *Membership {
	return &Membership{api: api, lookup: lookup, now: time.Now}
}

// MemberAdded handles KindGuildMemberAdd.
func (m *Membership) MemberAdded(ctx context.Context, payload any) error {
	e, ok := payload.(*discordgo.GuildMemberAdd)
	if !ok || e.Member == nil || e.User == nil || e.User.Bot {
		return nil
	}
	created, err := discordgo.SnowflakeTimestamp(e.User.ID)
	if err != nil || m.now().Sub(created) >= newcomerWindow {
		return nil
	}

	dm, err := m.api.UserChannelCreate(e.User.ID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM with %s: %w", e.User.ID, err)
	}
	text := fmt.Sprintf("Hey %s - just a reminder, your account needs to be at least 5 minutes old to chat.\n"+
		"While you wait, feel free to browse our welcome channel for some basic rules and channel descriptions.", e.User.Username)
	if _, err := m.api.ChannelMessageSend(dm.ID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send newcomer reminder: %w", err)
	}
	return nil
}

// MemberRemoved handles KindGuildMemberRemove. The gateway only sends the
// user, so the join time comes from the member cached before removal.
func (m *Membership) MemberRemoved(ctx context.Context, payload any) error {
	e, ok := payload.(*discordgo.GuildMemberRemove)
	if !ok || e.Member == nil || e.BeforeDelete == nil {
		return nil
	}
	left := e.BeforeDelete
	user := left.User
	if user == nil {
		user = e.User
	}
	if user == nil || left.JoinedAt.IsZero() || m.now().Sub(left.JoinedAt) >= newcomerWindow {
		return nil
	}

	guild, err := m.lookup.Guild(e.GuildID)
	if err != nil {
		return fmt.Errorf("resolve guild %s: %w", e.GuildID, err)
	}
	if guild.SystemChannelID == "" {
		return nil
	}

	name := left.Nick
	if name == "" {
		name = user.Username
	}
	text := fmt.Sprintf("Thanks for stopping by, %s\n%s", name, farewellGIF)
	if _, err := m.api.ChannelMessageSend(guild.SystemChannelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send farewell: %w", err)
	}
	return nil
}
