package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Engine.Alert.CooldownMinutes != 60 {
		t.Errorf("default cooldown = %d, want 60", cfg.Engine.Alert.CooldownMinutes)
	}
	if cfg.Engine.Risk.MinBars != 10 {
		t.Errorf("default min bars = %d, want 10", cfg.Engine.Risk.MinBars)
	}
	if w := cfg.Engine.Risk.Weights; math.Abs(w.Liquidity+w.Volatility+w.Spikes+w.Gaps-1.0) > 1e-9 {
		t.Errorf("default risk weights do not sum to 1: %+v", w)
	}
	if cfg.Engine.Whale.InclusionThreshold != 25 {
		t.Errorf("default inclusion threshold = %d, want 25", cfg.Engine.Whale.InclusionThreshold)
	}
	if _, ok := cfg.Engine.Risk.VolumeScales["1h"]; !ok {
		t.Error("default volume scales missing 1h")
	}
	if cfg.Engine.Whale.ScanWorkers <= 0 {
		t.Error("scan workers must be positive")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	content := `
app:
  name: custom-app
database:
  postgres:
    host: db.internal
engine:
  alert:
    cooldown_minutes: 30
  whale:
    scan_workers: 4
`
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}

	if cfg.App.Name != "custom-app" {
		t.Errorf("app name = %s, want custom-app", cfg.App.Name)
	}
	if cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("db host = %s, want db.internal", cfg.Database.Postgres.Host)
	}
	if cfg.Engine.Alert.CooldownMinutes != 30 {
		t.Errorf("cooldown = %d, want 30", cfg.Engine.Alert.CooldownMinutes)
	}
	if cfg.Engine.Whale.ScanWorkers != 4 {
		t.Errorf("scan workers = %d, want 4", cfg.Engine.Whale.ScanWorkers)
	}
	// 文件未覆盖的字段保留默认值
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("db port = %d, want default 5432", cfg.Database.Postgres.Port)
	}
	if cfg.Engine.Risk.MinBars != 10 {
		t.Errorf("min bars = %d, want default 10", cfg.Engine.Risk.MinBars)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: from-file\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	t.Setenv("APP_NAME", "from-env")
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("NATS_URL", "nats://env:4222")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}

	if cfg.App.Name != "from-env" {
		t.Errorf("app name = %s, env should win over file", cfg.App.Name)
	}
	if cfg.Database.Postgres.Host != "env-host" {
		t.Errorf("db host = %s, want env-host", cfg.Database.Postgres.Host)
	}
	if cfg.Database.Postgres.Port != 6432 {
		t.Errorf("db port = %d, want 6432", cfg.Database.Postgres.Port)
	}
	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("nats url = %s, want nats://env:4222", cfg.NATS.URL)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if got := GetDefaultConfigPath(); got != "configs/dev/app.yaml" {
		t.Errorf("default path = %s, want configs/dev/app.yaml", got)
	}

	t.Setenv("APP_ENV", "prod")
	if got := GetDefaultConfigPath(); got != "configs/prod/app.yaml" {
		t.Errorf("prod path = %s, want configs/prod/app.yaml", got)
	}
}
