package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := mgr.Get()
	if cfg.PollIntervalSeconds != 5 || cfg.ReconcileDelaySeconds != 1 {
		t.Fatalf("unexpected cadence defaults: poll=%d reconcile=%d",
			cfg.PollIntervalSeconds, cfg.ReconcileDelaySeconds)
	}

	cfg.PollIntervalSeconds = 10
	cfg.ReconcileDelaySeconds = 3
	cfg.EngineBaseURL = "http://localhost:8900"

	data, _ := json.Marshal(cfg)
	if err := mgr.UpdateFromJSON(string(data)); err != nil {
		t.Fatalf("UpdateFromJSON: %v", err)
	}

	updated := mgr.Get()
	if updated.PollIntervalSeconds != 10 {
		t.Fatalf("expected poll interval 10, got %d", updated.PollIntervalSeconds)
	}
	if updated.ReconcileDelaySeconds != 3 {
		t.Fatalf("expected reconcile delay 3, got %d", updated.ReconcileDelaySeconds)
	}
	if updated.EngineBaseURL != "http://localhost:8900" {
		t.Fatalf("expected engine base URL to round-trip, got %q", updated.EngineBaseURL)
	}
	if updated.PollInterval() != 10*time.Second || updated.ReconcileDelay() != 3*time.Second {
		t.Fatalf("duration accessors out of sync: %s / %s",
			updated.PollInterval(), updated.ReconcileDelay())
	}
}

func TestManagerRejectsInvalidCadence(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := mgr.Get()
	cfg.PollIntervalSeconds = 0
	data, _ := json.Marshal(cfg)
	if err := mgr.UpdateFromJSON(string(data)); err == nil {
		t.Fatal("expected validation error for zero poll interval")
	}

	cfg = mgr.Get()
	cfg.ReconcileDelaySeconds = -1
	data, _ = json.Marshal(cfg)
	if err := mgr.UpdateFromJSON(string(data)); err == nil {
		t.Fatal("expected validation error for negative reconcile delay")
	}

	// Rejected updates must not leak into the live config.
	if got := mgr.Get(); got.PollIntervalSeconds != 5 || got.ReconcileDelaySeconds != 1 {
		t.Fatalf("invalid update changed live config: poll=%d reconcile=%d",
			got.PollIntervalSeconds, got.ReconcileDelaySeconds)
	}
}

func TestManagerWatchRecoversFromAddFailure(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "conf")
	mgr, err := NewManager(WithConfigDir(configDir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Yank the watched directory out from under the first Watch call.
	if err := os.RemoveAll(configDir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := mgr.Watch(ctx, nil); err == nil {
		t.Fatal("expected Watch to fail for a missing config dir")
	}

	// Once the directory is back, a retry must start a fresh watcher instead
	// of returning early on the dead one.
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := mgr.Watch(ctx, nil); err != nil {
		t.Fatalf("Watch retry: %v", err)
	}
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	if err := mgr.Watch(ctx, func(cfg Config) {
		reloaded <- cfg
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := mgr.Get()
	cfg.PollIntervalSeconds = 15
	cfg.EngineBaseURL = "http://engine.internal:9000"

	if err := writeConfigFile(mgr.Path(), cfg); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	select {
	case got := <-reloaded:
		if got.PollIntervalSeconds != 15 {
			t.Fatalf("reload dropped poll interval, got %d", got.PollIntervalSeconds)
		}
		if got.EngineBaseURL != "http://engine.internal:9000" {
			t.Fatalf("reload dropped engine base URL, got %q", got.EngineBaseURL)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}

	if mgr.Get().PollIntervalSeconds != 15 {
		t.Fatal("reloaded cadence not visible through Get")
	}
}
