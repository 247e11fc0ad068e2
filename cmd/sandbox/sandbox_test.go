package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-arcade/pkg/config"
	"github.com/opd-ai/go-arcade/pkg/event"
)

func writeTemplate(t *testing.T, path, template string) {
	t.Helper()
	cfg := config.DefaultConfig()
	if err := config.ApplySceneTemplate(cfg, template); err != nil {
		t.Fatalf("ApplySceneTemplate(%q) error = %v", template, err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
}

func TestNewSandbox_Template(t *testing.T) {
	sb, err := newSandbox("", "top_down", nil)
	if err != nil {
		t.Fatalf("newSandbox() error = %v", err)
	}
	if got := len(sb.Sim().Sprites()); got != 5 {
		t.Errorf("len(Sprites()) = %d, expected 5", got)
	}

	sb.Sim().Start()
	for i := 0; i < 120; i++ {
		sb.Sim().Step()
	}
	if sb.Count(event.BodyOverlapped) == 0 {
		t.Error("Count(BodyOverlapped) = 0, expected the player to pick up coins")
	}
	if status := sb.Status(); !strings.Contains(status, "tick 120") {
		t.Errorf("Status() = %q, expected tick 120", status)
	}
}

func TestSandbox_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeTemplate(t, path, "billiards")

	sb, err := newSandbox(path, "", nil)
	if err != nil {
		t.Fatalf("newSandbox() error = %v", err)
	}
	first := sb.Sim()
	first.Start()
	if got := len(first.Sprites()); got != 4 {
		t.Fatalf("len(Sprites()) = %d, expected 4", got)
	}

	writeTemplate(t, path, "top_down")
	if err := sb.Reload(context.Background(), path); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	next := sb.Sim()
	if next == first {
		t.Fatal("Sim() unchanged after Reload()")
	}
	if got := len(next.Sprites()); got != 5 {
		t.Errorf("len(Sprites()) = %d, expected 5", got)
	}
	if first.Running() {
		t.Error("old simulation still running after Reload()")
	}
	if !next.Running() {
		t.Error("new simulation not running after Reload()")
	}
	if got := sb.Count(event.ConfigReloaded); got != 1 {
		t.Errorf("Count(ConfigReloaded) = %d, expected 1", got)
	}
	if status := sb.Status(); !strings.Contains(status, "reloads 1") {
		t.Errorf("Status() = %q, expected reloads 1", status)
	}
}

func TestSandbox_ReloadFailureKeepsScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	writeTemplate(t, path, "billiards")

	sb, err := newSandbox(path, "", nil)
	if err != nil {
		t.Fatalf("newSandbox() error = %v", err)
	}
	before := sb.Sim()

	if err := os.WriteFile(path, []byte("bodies: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := sb.Reload(context.Background(), path); err == nil {
		t.Fatal("Reload() error = nil, expected a parse error")
	}

	if sb.Sim() != before {
		t.Error("Sim() replaced after a failed reload")
	}
	if got := sb.Count(event.ConfigReloaded); got != 0 {
		t.Errorf("Count(ConfigReloaded) = %d, expected 0", got)
	}
	if status := sb.Status(); !strings.Contains(status, "reload error") {
		t.Errorf("Status() = %q, expected a reload error", status)
	}

	writeTemplate(t, path, "billiards")
	if err := sb.Reload(context.Background(), path); err != nil {
		t.Fatalf("Reload() after fix error = %v", err)
	}
	if status := sb.Status(); strings.Contains(status, "reload error") {
		t.Errorf("Status() = %q, expected the reload error to clear", status)
	}
}

func TestWriteScene(t *testing.T) {
	if err := writeScene("", "platformer"); err == nil {
		t.Error("writeScene() without a path error = nil, expected an error")
	}

	path := filepath.Join(t.TempDir(), "platformer.json")
	if err := writeScene(path, "platformer"); err != nil {
		t.Fatalf("writeScene() error = %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Tilemap == nil {
		t.Error("Tilemap = nil, expected the platformer floor")
	}
}
