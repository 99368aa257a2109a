package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigParsesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
streams:
  accelerometer:
    update_interval_ms: 50
window:
  capacity: 10
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Streams.Accelerometer.UpdateIntervalMs != 50 {
		t.Fatalf("accel interval = %d, want 50", cfg.Streams.Accelerometer.UpdateIntervalMs)
	}
	// unset values fall back to defaults
	if cfg.Streams.Gyroscope.UpdateIntervalMs != 100 {
		t.Fatalf("gyro interval = %d, want default 100", cfg.Streams.Gyroscope.UpdateIntervalMs)
	}
	if cfg.Window.Capacity != 10 {
		t.Fatalf("capacity = %d, want 10", cfg.Window.Capacity)
	}
	if cfg.Source.Mode != "simulate" {
		t.Fatalf("mode = %q, want default simulate", cfg.Source.Mode)
	}
	if cfg.Web.Addr != ":8080" {
		t.Fatalf("web addr = %q, want default :8080", cfg.Web.Addr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "streams: [not a map")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnvOverridesEndpoints(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("MQTT_BROKER", "tcp://broker.local:1883")
	t.Setenv("STORAGE_BASE_DIR", "/var/lib/motion")
	ApplyEnv(cfg)

	if cfg.Source.MQTT.Broker != "tcp://broker.local:1883" {
		t.Fatalf("broker = %q, env override lost", cfg.Source.MQTT.Broker)
	}
	if cfg.Storage.BaseDir != "/var/lib/motion" {
		t.Fatalf("base dir = %q, env override lost", cfg.Storage.BaseDir)
	}
	// untouched values keep their config defaults
	if cfg.Source.MQTT.ClientID != "motion-logger" {
		t.Fatalf("client id = %q, want default", cfg.Source.MQTT.ClientID)
	}
}
