// Package telemetry records one entry per message posted in a guild text channel
// and ships the entries in batches.
package telemetry

// Record is the per-message telemetry entry. Timestamp is Unix milliseconds.
type Record struct {
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
	Timestamp   int64  `json:"timestamp"`
}
