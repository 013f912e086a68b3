package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 3001 {
		t.Fatalf("http.port=%d, want 3001", cfg.HTTP.Port)
	}
	if cfg.Signaling.SweepInterval != 5*time.Minute {
		t.Fatalf("sweep_interval=%s, want 5m", cfg.Signaling.SweepInterval)
	}
	if cfg.Signaling.CodeLength != 8 {
		t.Fatalf("code_length=%d, want 8", cfg.Signaling.CodeLength)
	}
	if cfg.Logger.Logger != "zap" {
		t.Fatalf("logger=%q, want zap", cfg.Logger.Logger)
	}
	if cfg.Events.Enabled || cfg.Tracing.Enabled {
		t.Fatalf("events/tracing should be opt-in")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := strings.Join([]string{
		"http:",
		"  port: 9000",
		"signaling:",
		"  sweep_interval: 30s",
		"  send_buffer: 8",
		"logger:",
		"  logger: zerolog",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("SIGNALING_CODE_LENGTH", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 9000 {
		t.Fatalf("http.port=%d, want 9000", cfg.HTTP.Port)
	}
	if cfg.Signaling.SweepInterval != 30*time.Second {
		t.Fatalf("sweep_interval=%s, want 30s", cfg.Signaling.SweepInterval)
	}
	if cfg.Signaling.SendBuffer != 8 {
		t.Fatalf("send_buffer=%d, want 8", cfg.Signaling.SendBuffer)
	}
	if cfg.Signaling.CodeLength != 6 {
		t.Fatalf("code_length=%d, want 6 from env", cfg.Signaling.CodeLength)
	}
	if cfg.Logger.Logger != "zerolog" {
		t.Fatalf("logger=%q, want zerolog", cfg.Logger.Logger)
	}
	// untouched keys still get defaults
	if cfg.Signaling.MaxMessageBytes != 64*1024 {
		t.Fatalf("max_message_bytes=%d, want default", cfg.Signaling.MaxMessageBytes)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("signaling:\n  code_length: 2\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted code_length=2")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load of a missing explicit path should fail")
	}
}
