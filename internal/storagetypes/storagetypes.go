package storagetypes

import (
	"time"
)

type CommandHistory struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// ErrorRecord is an error that reached the process-wide error boundary.
type ErrorRecord struct {
	Source   string    `json:"source"` // event kind that surfaced the error
	Command  string    `json:"command,omitempty"`
	GuildID  string    `json:"guild_id,omitempty"`
	Message  string    `json:"message"`
	Datetime time.Time `json:"datetime"`
}

type Record struct {
	CommandsHistory []CommandHistory `json:"commands_history"`
	Errors          []ErrorRecord    `json:"errors"`
}
