package commands

import (
	"time"

	"server-herald/internal/middleware"
	"server-herald/pkg/cmd"
)

// Store is the storage the built-in commands read from and record into.
type Store interface {
	ErrorSource
	HistorySource
	middleware.HistorySink
}

type Deps struct {
	Latency func() time.Duration
	Store   Store
	Lookup  middleware.Lookup
}

// NewTable builds the command table with every built-in command wrapped in its
// middleware.
func NewTable(d Deps) (*cmd.Table, error) {
	logged := middleware.WithCommandHistory(d.Store, d.Lookup)
	guildOnly := middleware.WithGuildOnly()

	var table *cmd.Table
	help := NewHelp(func() []cmd.Command { return table.All() })

	table, err := cmd.NewTable(
		cmd.Apply(NewPing(d.Latency), logged),
		cmd.Apply(&AboutCommand{}, logged),
		cmd.Apply(help, logged),
		cmd.Apply(NewErrors(d.Store), guildOnly, logged),
		cmd.Apply(NewHistory(d.Store), guildOnly),
	)
	if err != nil {
		return nil, err
	}
	return table, nil
}
