// cmd/build-readme regenerates README.md from README.md.tmpl and the command table.
package main

import (
	"bytes"
	"log"
	"os"
	"time"

	"server-herald/internal/commands"
	"server-herald/internal/docs"
)

func main() {
	table, err := commands.NewTable(commands.Deps{
		Latency: func() time.Duration { return 0 },
	})
	if err != nil {
		log.Fatal(err)
	}

	tmpl, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		log.Fatal(err)
	}

	var out bytes.Buffer
	if err := docs.RenderReadme(&out, string(tmpl), table); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("README.md", out.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}
	log.Println("[INFO] README.md updated with current commands")
}
