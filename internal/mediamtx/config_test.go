package mediamtx

import (
	"path/filepath"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	cfg := NewConfig(":8554", "live.stream")

	path := filepath.Join(t.TempDir(), "mediamtx.yml")
	if err := cfg.WriteToFile(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.RTSPAddress != ":8554" {
		t.Errorf("rtspAddress: got %q", loaded.RTSPAddress)
	}
	if _, ok := loaded.Paths["live.stream"]; !ok {
		t.Errorf("expected live.stream path, got %v", loaded.Paths)
	}
}

func TestEnsureConfig(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "mediamtx")

	if err := EnsureConfig(binary, "127.0.0.1:8554", "live.stream"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}

	cfgPath := filepath.Join(dir, ConfigFileName)
	loaded, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.RTSPAddress != "127.0.0.1:8554" {
		t.Errorf("rtspAddress: got %q", loaded.RTSPAddress)
	}

	// A second call must not clobber an existing file
	loaded.LogLevel = "debug"
	if err := loaded.WriteToFile(cfgPath); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if err := EnsureConfig(binary, "0.0.0.0:9000", "other"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	kept, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if kept.LogLevel != "debug" || kept.RTSPAddress != "127.0.0.1:8554" {
		t.Errorf("existing config was overwritten: %+v", kept)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
