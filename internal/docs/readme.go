package docs

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"server-herald/internal/commands"
	"server-herald/pkg/cmd"
)

// CommandSections renders the command table as markdown, one section per
// category in help order.
func CommandSections(table *cmd.Table) string {
	list := table.All()
	commands.SortByCategory(list)

	var buf bytes.Buffer
	current := ""
	for _, c := range list {
		if cat := commands.CategoryOf(c); cat != current {
			if current != "" {
				buf.WriteString("\n")
			}
			current = cat
			fmt.Fprintf(&buf, "### %s\n\n", current)
		}
		fmt.Fprintf(&buf, "- **/%s** — %s\n", c.Name(), c.Description())
	}
	return buf.String()
}

// RenderReadme executes tmpl with the command sections as .CommandSections.
func RenderReadme(w io.Writer, tmpl string, table *cmd.Table) error {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse readme template: %w", err)
	}
	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(table),
	}
	return t.Execute(w, data)
}
