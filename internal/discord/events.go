package discord

import "server-herald/pkg/eventbus"

// Bus kinds for forwarded gateway events. Payloads are the discordgo event
// pointers, e.g. *discordgo.MessageCreate for KindMessageCreate.
const (
	KindInteractionCreate eventbus.Kind = "InteractionCreate"
	KindMessageCreate     eventbus.Kind = "MessageCreate"
	KindReady             eventbus.Kind = "Ready"
	KindGuildCreate       eventbus.Kind = "GuildCreate"
	KindGuildMemberAdd    eventbus.Kind = "GuildMemberAdd"
	KindGuildMemberRemove eventbus.Kind = "GuildMemberRemove"
	KindThreadCreate      eventbus.Kind = "ThreadCreate"
	KindThreadDelete      eventbus.Kind = "ThreadDelete"
)
