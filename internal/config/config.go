// /internal/config/config.go
package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`

	// Diagnostics are sent only when Debug is on and a channel is set.
	DiagnosticChannelID string `env:"DIAGNOSTIC_CHANNEL_ID"`
	ModLogChannelID     string `env:"MOD_LOG_CHANNEL_ID"`

	TelemetryEnabled   bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	TelemetryBatchSize int    `env:"TELEMETRY_BATCH_SIZE" envDefault:"10"`
	NATSURL            string `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	TelemetrySubject   string `env:"TELEMETRY_SUBJECT" envDefault:"herald.telemetry.messages"`

	RegisterCommands    bool `env:"REGISTER_COMMANDS" envDefault:"true"`
	RegisterOnGuildJoin bool `env:"REGISTER_ON_GUILD_JOIN" envDefault:"true"`
	RegisterWorkers     int  `env:"REGISTER_WORKERS" envDefault:"4"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TelemetryBatchSize <= 0 {
		return fmt.Errorf("TELEMETRY_BATCH_SIZE must be positive, got %d", c.TelemetryBatchSize)
	}
	if c.TelemetryEnabled && c.TelemetrySubject == "" {
		return fmt.Errorf("TELEMETRY_SUBJECT is required when telemetry is enabled")
	}
	if c.RegisterWorkers <= 0 {
		c.RegisterWorkers = 1
	}
	return nil
}

// DiagnosticsEnabled reports whether command failures are reported to the
// diagnostic channel.
func (c *Config) DiagnosticsEnabled() bool {
	return c.Debug && c.DiagnosticChannelID != ""
}
