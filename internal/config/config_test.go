package config

import "testing"

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.StoragePath != "datastore.json" {
		t.Errorf("StoragePath = %q", cfg.StoragePath)
	}
	if cfg.TelemetryBatchSize != 10 {
		t.Errorf("TelemetryBatchSize = %d, want 10", cfg.TelemetryBatchSize)
	}
	if cfg.TelemetryEnabled || cfg.Debug {
		t.Error("telemetry and debug must be off by default")
	}
	if !cfg.RegisterCommands || !cfg.RegisterOnGuildJoin {
		t.Error("command registration must be on by default")
	}
	if cfg.DiagnosticsEnabled() {
		t.Error("diagnostics must be off by default")
	}
}

func TestParse_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := Parse(); err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}
}

func TestParse_InvalidBatchSize(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("TELEMETRY_BATCH_SIZE", "0")
	if _, err := Parse(); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestDiagnosticsEnabled(t *testing.T) {
	tests := []struct {
		debug   bool
		channel string
		want    bool
	}{
		{false, "", false},
		{true, "", false},
		{false, "123", false},
		{true, "123", true},
	}
	for _, tt := range tests {
		c := &Config{Debug: tt.debug, DiagnosticChannelID: tt.channel}
		if got := c.DiagnosticsEnabled(); got != tt.want {
			t.Errorf("Debug=%v channel=%q: got %v, want %v", tt.debug, tt.channel, got, tt.want)
		}
	}
}

func TestCategoryWeight(t *testing.T) {
	if CategoryWeight("🕯️ Information") >= CategoryWeight("🛠️ Maintenance") {
		t.Error("information must sort before maintenance")
	}
	if CategoryWeight("unknown") != 1000 {
		t.Error("unknown categories must sort last")
	}
}
