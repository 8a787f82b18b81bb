package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateCommand is returned by NewTable when two commands share a name
// after case folding.
var ErrDuplicateCommand = errors.New("duplicate command name")

// Table maps lower-cased command names to commands. It is built once and never
// modified, so it is safe to share between goroutines without locking.
type Table struct {
	commands map[string]Command
}

// NewTable builds a table from cmds.
func NewTable(cmds ...Command) (*Table, error) {
	t := &Table{commands: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		key := strings.ToLower(c.Name())
		if key == "" {
			return nil, fmt.Errorf("command %T has an empty name", Root(c))
		}
		if _, exists := t.commands[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, c.Name())
		}
		t.commands[key] = c
	}
	return t, nil
}

// Get looks up a command by name, ignoring case.
func (t *Table) Get(name string) (Command, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.commands[strings.ToLower(name)]
	return c, ok
}

// All returns every command, sorted by name.
func (t *Table) All() []Command {
	if t == nil {
		return nil
	}
	list := make([]Command, 0, len(t.commands))
	for _, c := range t.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name()) < strings.ToLower(list[j].Name())
	})
	return list
}

// Len returns the number of commands.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.commands)
}
