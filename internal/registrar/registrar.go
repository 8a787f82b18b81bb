// Package registrar publishes the command table to Discord as guild commands.
// Every upload is a full bulk overwrite, so running it again with the same
// table leaves the remote state unchanged.
package registrar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"server-herald/pkg/cmd"
	"server-herald/pkg/retrylimit"
	"server-herald/pkg/util"
)

// Registry is the part of *discordgo.Session that stores guild commands.
type Registry interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// SlashProvider is implemented by commands that have a slash command schema.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

type Registrar struct {
	api     Registry
	appID   func() string
	defs    []*discordgo.ApplicationCommand
	workers int
	limiter *retrylimit.AdaptiveLimiter
	retry   retrylimit.Config

	// guild IDs uploaded, or being uploaded, by this process
	registered sync.Map
}

type Option func(*Registrar)

// WithWorkers bounds how many guilds are uploaded in parallel.
func WithWorkers(n int) Option {
	return func(r *Registrar) { r.workers = n }
}

// WithRetry replaces retrylimit.DefaultConfig.
func WithRetry(cfg retrylimit.Config) Option {
	return func(r *Registrar) { r.retry = cfg }
}

// WithLimiter replaces the default adaptive limiter; nil disables limiting.
func WithLimiter(l *retrylimit.AdaptiveLimiter) Option {
	return func(r *Registrar) { r.limiter = l }
}

// New snapshots the definitions of table. appID returns the application ID
// once the session is ready.
func New(api Registry, appID func() string, table *cmd.Table, opts ...Option) *Registrar {
	r := &Registrar{
		api:     api,
		appID:   appID,
		defs:    Definitions(table),
		workers: 4,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		retry:   retrylimit.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Definitions collects the slash schema of every command in table, looking
// through middleware wrappers. Commands without one are skipped.
func Definitions(table *cmd.Table) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range table.All() {
		sp, ok := cmd.Root(c).(SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Name == "" {
			def.Name = strings.ToLower(c.Name())
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

// Register overwrites the commands of every guild in guildIDs. A failing guild
// does not stop the others; all failures are returned joined.
func (r *Registrar) Register(ctx context.Context, guildIDs []string) error {
	log.Printf("[INFO] Registering %d command(s) in %d guild(s)...", len(r.defs), len(guildIDs))
	// claim every guild first so GuildCreate events arriving meanwhile are skipped
	for _, id := range guildIDs {
		r.registered.Store(id, struct{}{})
	}
	err := util.ForEach(ctx, guildIDs, r.workers, r.upload)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	log.Printf("[DONE] Commands registered in %d guild(s)", len(guildIDs))
	return nil
}

// Registered reports whether guildID was uploaded by this process.
func (r *Registrar) Registered(guildID string) bool {
	_, ok := r.registered.Load(guildID)
	return ok
}

// GuildJoined handles GuildCreate events: guilds not yet seen by this process
// get their commands uploaded.
func (r *Registrar) GuildJoined(ctx context.Context, payload any) error {
	g, ok := payload.(*discordgo.GuildCreate)
	if !ok || g.Guild == nil || g.ID == "" {
		return nil
	}
	if _, seen := r.registered.LoadOrStore(g.ID, struct{}{}); seen {
		return nil
	}
	log.Printf("[INFO] Registering commands for joined guild %s (%s)", g.ID, g.Name)
	return r.upload(ctx, g.ID)
}

func (r *Registrar) upload(ctx context.Context, guildID string) error {
	appID := r.appID()
	if appID == "" {
		r.registered.Delete(guildID)
		return errors.New("application ID not known yet")
	}

	err := retrylimit.Do(ctx, r.limiter, r.retry, func(ctx context.Context) error {
		_, err := r.api.ApplicationCommandBulkOverwrite(appID, guildID, r.defs, discordgo.WithContext(ctx))
		return classify(err)
	})
	if err != nil {
		// forget the guild so a later GuildCreate can try again
		r.registered.Delete(guildID)
		return fmt.Errorf("guild %s: %w", guildID, err)
	}
	log.Printf("[DONE] [%s] %d command(s) uploaded", guildID, len(r.defs))
	return nil
}
