// Package commands holds the built-in slash commands.
package commands

import (
	"sort"

	"server-herald/internal/config"
	"server-herald/pkg/cmd"
)

const (
	categoryInfo        = "🕯️ Information"
	categoryMaintenance = "🛠️ Maintenance"
)

// Categorized is implemented by commands that belong to a help category.
type Categorized interface {
	Category() string
}

// CategoryOf returns the help category of c, looking through middleware.
func CategoryOf(c cmd.Command) string {
	if cat, ok := cmd.Root(c).(Categorized); ok {
		return cat.Category()
	}
	return "Other"
}

// SortByCategory orders cmds by category weight, then by name.
func SortByCategory(cmds []cmd.Command) {
	sort.SliceStable(cmds, func(i, j int) bool {
		ci, cj := CategoryOf(cmds[i]), CategoryOf(cmds[j])
		if ci != cj {
			return categoryLess(ci, cj)
		}
		return cmds[i].Name() < cmds[j].Name()
	})
}

func categoryLess(a, b string) bool {
	wa, wb := config.CategoryWeight(a), config.CategoryWeight(b)
	if wa != wb {
		return wa < wb
	}
	return a < b
}
