// cmd/herald/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/nats-io/nats.go"

	"server-herald/internal/boundary"
	"server-herald/internal/commands"
	"server-herald/internal/comms"
	"server-herald/internal/config"
	"server-herald/internal/discord"
	"server-herald/internal/dispatch"
	"server-herald/internal/registrar"
	"server-herald/internal/storage"
	"server-herald/internal/telemetry"
	"server-herald/internal/tracing"
	v "server-herald/internal/version"
	"server-herald/pkg/batch"
	"server-herald/pkg/eventbus"
	"server-herald/pkg/jobmgr"
)

const (
	shutdownTimeout = 10 * time.Second
	registerJob     = "register-commands"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERR] Invalid configuration: %v", err)
	}

	shutdownTracing, err := tracing.Setup(ctx, v.AppName, cfg.OTelEndpoint, v.Commit)
	if err != nil {
		log.Fatalf("[ERR] Failed to set up tracing: %v", err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}

	guard := boundary.New(store, cfg.Debug)
	bus := eventbus.New(guard.Handle)

	bot, err := discord.New(cfg.DiscordToken, bus)
	if err != nil {
		log.Fatal(err)
	}
	session := bot.Session()
	lookup := discord.SessionLookup{S: session}

	table, err := commands.NewTable(commands.Deps{
		Latency: session.HeartbeatLatency,
		Store:   store,
		Lookup:  lookup,
	})
	if err != nil {
		log.Fatal(err)
	}

	opts := []dispatch.Option{dispatch.WithDebug(cfg.Debug)}
	if cfg.DiagnosticsEnabled() {
		opts = append(opts, dispatch.WithDiagnostics(discord.NewChannelReporter(session, cfg.DiagnosticChannelID)))
	}
	dispatcher := dispatch.New(table, discord.InteractionDecoder(session), opts...)
	bus.Subscribe(discord.KindInteractionCreate, dispatcher.Handle)

	modLog := discord.NewModLog(session, lookup, cfg.ModLogChannelID)
	bus.Subscribe(discord.KindThreadCreate, modLog.ThreadCreated)
	bus.Subscribe(discord.KindThreadDelete, modLog.ThreadDeleted)

	members := discord.NewMembership(session, lookup)
	bus.Subscribe(discord.KindGuildMemberAdd, members.MemberAdded)
	bus.Subscribe(discord.KindGuildMemberRemove, members.MemberRemoved)

	var (
		nc      *nats.Conn
		emitter *batch.Emitter[telemetry.Record]
	)
	if cfg.TelemetryEnabled {
		nc, err = comms.Connect(cfg.NATSURL, v.AppName)
		if err != nil {
			log.Fatal(err)
		}
		emitter, err = batch.NewEmitter[telemetry.Record](cfg.TelemetryBatchSize, telemetry.NewNATSSink(nc, cfg.TelemetrySubject))
		if err != nil {
			log.Fatal(err)
		}
		messages := telemetry.NewMessageLogger(emitter, lookup.Channel, bot.SelfID)
		bus.Subscribe(discord.KindMessageCreate, messages.Handle)
		log.Printf("[INFO] Telemetry enabled: batches of %d to %s", cfg.TelemetryBatchSize, cfg.TelemetrySubject)
	}

	jobs := jobmgr.NewManager(func(msg string) {
		if cfg.Debug {
			log.Printf("[DEBUG] job %s", msg)
		}
	})
	reg := registrar.New(session, bot.SelfID, table, registrar.WithWorkers(cfg.RegisterWorkers))

	bus.Subscribe(discord.KindReady, func(ctx context.Context, payload any) error {
		r, ok := payload.(*discordgo.Ready)
		if !ok {
			return nil
		}
		log.Printf("[INFO] ✅ Discord bot %v is running in %d guild(s).", r.User.Username, len(r.Guilds))

		if !cfg.RegisterCommands {
			log.Println("[INFO] Registering slash commands skipped")
			return nil
		}
		guildIDs := make([]string, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, g.ID)
		}
		// A Ready after a reconnect carries a fresh guild list.
		if jobs.Stop(registerJob) == nil {
			log.Println("[INFO] Restarting slash command registration")
		}
		return jobs.Start(ctx, registerJob, func(ctx context.Context) error {
			err := reg.Register(ctx, guildIDs)
			if err != nil && ctx.Err() == nil {
				guard.Handle(discord.KindReady, err)
			}
			return err
		})
	})
	if cfg.RegisterCommands && cfg.RegisterOnGuildJoin {
		bus.Subscribe(discord.KindGuildCreate, reg.GuildJoined)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
	}
	cancel()
	<-errCh
	if running := jobs.Running(); len(running) > 0 {
		log.Printf("[INFO] Waiting for jobs: %s", strings.Join(running, ", "))
	}
	jobs.Wait()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if emitter != nil {
		pending := emitter.Pending()
		if err := emitter.Flush(shutdownCtx); err != nil {
			log.Printf("[WARN] Failed to flush %d telemetry record(s): %v", pending, err)
		} else if pending > 0 {
			log.Printf("[DONE] Flushed %d telemetry record(s)", pending)
		}
	}
	if nc != nil {
		nc.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("[WARN] Tracing shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("[WARN] Failed to close storage: %v", err)
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
