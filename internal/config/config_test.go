package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 || cfg.Video.FPS != 30 {
		t.Errorf("canvas defaults = %dx%d @ %d", cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)
	}
	if cfg.Video.DrawSeconds != 15 || cfg.Video.StartIdleSeconds != 2 || cfg.Video.EndIdleSeconds != 5 {
		t.Errorf("timing defaults wrong: %+v", cfg.Video)
	}
	if cfg.Video.Line != "#00FF88" {
		t.Errorf("line color default = %q", cfg.Video.Line)
	}
	if !cfg.Video.Smooth {
		t.Error("smoothing should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
video:
  width: 720
  fps: 24
  line: "#FF0000"
schedule:
  - cron: "0 0 8 * * 1"
    ticker: BTC-USD
    lookback_days: 90
    reveal: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Video.Width != 720 || cfg.Video.FPS != 24 {
		t.Errorf("overrides not applied: %dx? @ %d", cfg.Video.Width, cfg.Video.FPS)
	}
	if cfg.Video.Height != 1920 {
		t.Errorf("unset field lost its default: height = %d", cfg.Video.Height)
	}
	if cfg.Video.Line != "#FF0000" {
		t.Errorf("line = %q", cfg.Video.Line)
	}
	if len(cfg.Schedule) != 1 || cfg.Schedule[0].Ticker != "BTC-USD" || !cfg.Schedule[0].Reveal {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9999")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.SQLitePath != "/tmp/test.db" {
		t.Errorf("sqlite path = %q", cfg.Database.SQLitePath)
	}
	if cfg.Server.Listen != "127.0.0.1:9999" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Video.FPS = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero fps")
	}

	cfg, _ = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Video.Line = "green"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-hex color")
	}

	cfg, _ = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg.Schedule = []ScheduleEntry{{Cron: "@daily"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for schedule entry without ticker")
	}
}

func TestRenderBase(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	base := cfg.RenderBase()
	if base.TotalFrames() != (2+15+5)*30 {
		t.Errorf("total frames = %d, want %d", base.TotalFrames(), (2+15+5)*30)
	}
	if base.Label != "" || base.Reveal || base.AudioPath != "" || base.OutputPath != "" {
		t.Errorf("per-request fields should start empty: %+v", base)
	}
}
