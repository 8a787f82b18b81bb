package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-herald/internal/registrar"
	"server-herald/internal/storage"
	st "server-herald/internal/storagetypes"
	"server-herald/pkg/cmd"
)

type textReplier struct{ texts []string }

func (r *textReplier) Reply(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return nil
}
func (r *textReplier) EditReply(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return nil
}
func (r *textReplier) Replied() bool { return len(r.texts) > 0 }

func (r *textReplier) last() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

type names struct{}

func (names) Channel(id string) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: id, Name: "general"}, nil
}
func (names) Guild(id string) (*discordgo.Guild, error) {
	return &discordgo.Guild{ID: id, Name: "Guild"}, nil
}

func newTestTable(t *testing.T) (*cmd.Table, *storage.Storage) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	table, err := NewTable(Deps{
		Latency: func() time.Duration { return 42 * time.Millisecond },
		Store:   store,
		Lookup:  names{},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table, store
}

func run(t *testing.T, table *cmd.Table, name, guildID string) string {
	t.Helper()
	c, ok := table.Get(name)
	if !ok {
		t.Fatalf("command %q not found", name)
	}
	r := &textReplier{}
	inv := &cmd.Invocation{Command: name, GuildID: guildID, ChannelID: "c1", UserID: "u1", Username: "alice", Reply: r}
	if err := c.Run(context.Background(), inv); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return r.last()
}

func TestNewTable_EveryCommandHasSlashDefinition(t *testing.T) {
	table, _ := newTestTable(t)

	defs := registrar.Definitions(table)
	if len(defs) != table.Len() {
		t.Fatalf("expected %d definitions, got %d", table.Len(), len(defs))
	}
	for _, d := range defs {
		if d.Description == "" {
			t.Errorf("%s: empty description", d.Name)
		}
	}
}

func TestPing(t *testing.T) {
	table, _ := newTestTable(t)
	if got := run(t, table, "PING", "g1"); got != "🏓 Pong! 42ms" {
		t.Errorf("got %q", got)
	}
}

func TestAbout(t *testing.T) {
	table, _ := newTestTable(t)
	if got := run(t, table, "about", "g1"); !strings.Contains(got, "Server Herald") {
		t.Errorf("got %q", got)
	}
}

func TestHelp_ListsTableByCategory(t *testing.T) {
	table, _ := newTestTable(t)
	got := run(t, table, "help", "g1")

	for _, name := range []string{"about", "errors", "help", "history", "ping"} {
		if !strings.Contains(got, "`/"+name+"`") {
			t.Errorf("help output misses %s:\n%s", name, got)
		}
	}
	if strings.Index(got, categoryInfo) > strings.Index(got, categoryMaintenance) {
		t.Errorf("information should be listed before maintenance:\n%s", got)
	}
}

func TestErrors(t *testing.T) {
	table, store := newTestTable(t)

	if got := run(t, table, "errors", "g1"); !strings.Contains(got, "No errors") {
		t.Errorf("got %q", got)
	}

	for i := 0; i < errorsShown+2; i++ {
		store.AppendError(st.ErrorRecord{
			Source:   "InteractionCreate",
			Command:  "ping",
			GuildID:  "g1",
			Message:  "failure " + string(rune('a'+i)),
			Datetime: time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
		})
	}

	got := run(t, table, "errors", "g1")
	if strings.Count(got, "\n") != errorsShown {
		t.Errorf("expected header plus %d lines:\n%s", errorsShown, got)
	}
	if !strings.Contains(got, "failure g") || strings.Contains(got, "failure a") {
		t.Errorf("expected only the newest errors:\n%s", got)
	}
}

func TestErrors_GuildOnly(t *testing.T) {
	table, _ := newTestTable(t)
	if got := run(t, table, "errors", ""); !strings.Contains(got, "only be used in a server") {
		t.Errorf("got %q", got)
	}
}

func TestHistory_RecordsThroughMiddleware(t *testing.T) {
	table, _ := newTestTable(t)

	run(t, table, "ping", "g1")
	run(t, table, "about", "g1")

	got := run(t, table, "history", "g1")
	if !strings.Contains(got, "alice used `/about` in #general") || !strings.Contains(got, "`/ping`") {
		t.Errorf("unexpected history:\n%s", got)
	}
	if strings.Index(got, "/about") > strings.Index(got, "/ping") {
		t.Errorf("newest entry should come first:\n%s", got)
	}
}
