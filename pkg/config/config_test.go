package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: unified-db
  user: report
  database: cloud_unified
sources:
  huawei:
    host: huawei-db
    user: reader
    database: huawei_cloud
  tencent:
    host: tencent-db
    user: reader
    database: tencent_cloud
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("expected default database port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Sync.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts 3, got %d", cfg.Sync.MaxAttempts)
	}
	if cfg.Sync.RetryDelay != 5*time.Second {
		t.Fatalf("expected default retry delay 5s, got %s", cfg.Sync.RetryDelay)
	}
	if cfg.Sync.ExpiryThresholdDays != 65 {
		t.Fatalf("expected default expiry threshold 65, got %d", cfg.Sync.ExpiryThresholdDays)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoad_RejectsIncompleteDatabase(t *testing.T) {
	path := writeConfig(t, `
database:
  host: unified-db
sources:
  huawei:
    host: huawei-db
    user: reader
    database: huawei_cloud
  tencent:
    host: tencent-db
    user: reader
    database: tencent_cloud
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing database user/name, got nil")
	}
}

func TestLoad_ExplicitZeroValuesSurvive(t *testing.T) {
	path := writeConfig(t, `
database:
  host: unified-db
  user: report
  database: cloud_unified
sources:
  huawei:
    host: huawei-db
    user: reader
    database: huawei_cloud
  tencent:
    host: tencent-db
    user: reader
    database: tencent_cloud
sync:
  interval: 0
  expiry_threshold_days: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Sync.Interval != 0 {
		t.Fatalf("interval: 0 must disable the scheduler, got %s", cfg.Sync.Interval)
	}
	if cfg.Sync.ExpiryThresholdDays != 0 {
		t.Fatalf("expected expiry threshold 0, got %d", cfg.Sync.ExpiryThresholdDays)
	}
	// Settings absent from the file still pick up their defaults.
	if cfg.Sync.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts 3, got %d", cfg.Sync.MaxAttempts)
	}
	if cfg.Sync.RetryDelay != 5*time.Second {
		t.Fatalf("expected default retry delay 5s, got %s", cfg.Sync.RetryDelay)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: unified-db
  user: report
  database: cloud_unified
sources:
  huawei:
    host: huawei-db
    user: reader
    database: huawei_cloud
  tencent:
    host: tencent-db
    user: reader
    database: tencent_cloud
sync:
  max_attempts: 5
  retry_delay: 250ms
  strict_validation: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("expected server port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Sync.MaxAttempts != 5 {
		t.Fatalf("expected max attempts 5, got %d", cfg.Sync.MaxAttempts)
	}
	if cfg.Sync.RetryDelay != 250*time.Millisecond {
		t.Fatalf("expected retry delay 250ms, got %s", cfg.Sync.RetryDelay)
	}
	if !cfg.Sync.StrictValidation {
		t.Fatal("expected strict validation to be enabled")
	}
}
