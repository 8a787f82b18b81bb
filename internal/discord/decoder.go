package discord

import (
	"github.com/bwmarrin/discordgo"

	"server-herald/internal/dispatch"
	"server-herald/pkg/cmd"
)

// InteractionDecoder turns slash command interactions into invocations that
// reply through api. Every other payload is rejected.
func InteractionDecoder(api InteractionAPI) dispatch.Decoder {
	return func(payload any) (*cmd.Invocation, bool) {
		i, ok := payload.(*discordgo.InteractionCreate)
		if !ok || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
			return nil, false
		}
		data := i.ApplicationCommandData()
		if data.CommandType != discordgo.ChatApplicationCommand && data.CommandType != 0 {
			return nil, false
		}

		inv := &cmd.Invocation{
			Command:   data.Name,
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			Options:   optionValues(data.Options),
			Reply:     newReplier(api, i.Interaction),
			Data:      i,
		}
		if u := interactionUser(i.Interaction); u != nil {
			inv.UserID = u.ID
			inv.Username = u.Username
		}
		return inv, true
	}
}

// optionValues flattens options into name → value; subcommands and groups
// become nested maps.
func optionValues(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]any {
	out := make(map[string]any, len(opts))
	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			out[o.Name] = optionValues(o.Options)
		default:
			out[o.Name] = o.Value
		}
	}
	return out
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
