package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

// isolate runs the test from an empty directory with an empty HOME.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	homedir.DisableCache = true
	t.Setenv("HOME", dir)
	t.Setenv("PLANTDASH_CONFIG_PATH", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://raspberrypi.local:5000" {
		t.Fatalf("unexpected server %q", cfg.Server)
	}
	if cfg.FastInterval != time.Minute || cfg.SlowInterval != 30*time.Second {
		t.Fatalf("unexpected intervals %v %v", cfg.FastInterval, cfg.SlowInterval)
	}
	if cfg.StatePath != filepath.Join(dir, ".plantdash") {
		t.Fatalf("state path not expanded: %q", cfg.StatePath)
	}
	if cfg.RouteStyle != RoutesREST || cfg.DefaultPeriod != "24h" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

func TestLoadFileEnvAndDotenv(t *testing.T) {
	dir := isolate(t)

	yaml := "server: http://greenhouse:8080/\nroute_style: legacy\nfast_interval: 10s\n"
	if err := os.WriteFile(filepath.Join(dir, ".plantdash.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PLANTDASH_SLOW_INTERVAL=2m\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	_ = os.Unsetenv("PLANTDASH_SLOW_INTERVAL")
	t.Cleanup(func() { _ = os.Unsetenv("PLANTDASH_SLOW_INTERVAL") })
	t.Setenv("PLANTDASH_DEFAULT_PERIOD", "1w")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://greenhouse:8080" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Server)
	}
	if cfg.RouteStyle != RoutesLegacy {
		t.Fatalf("expected legacy routes from file")
	}
	if cfg.FastInterval != 10*time.Second {
		t.Fatalf("expected fast interval from file, got %v", cfg.FastInterval)
	}
	if cfg.SlowInterval != 2*time.Minute {
		t.Fatalf("expected slow interval from .env, got %v", cfg.SlowInterval)
	}
	if cfg.DefaultPeriod != "7d" {
		t.Fatalf("expected period from environment, got %q", cfg.DefaultPeriod)
	}
}

func TestValidate(t *testing.T) {
	good := Config{Server: "http://x", FastInterval: time.Second, SlowInterval: time.Second, RouteStyle: RoutesREST}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := good
	bad.RouteStyle = "soap"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected route style error")
	}
	bad = good
	bad.DefaultPeriod = "3d"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected period error")
	}
	bad = good
	bad.SlowInterval = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected interval error")
	}
}
