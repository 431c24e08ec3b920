package mediamtx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCommandWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "mediamtx")

	args := Command(binary)
	if len(args) != 1 || args[0] != binary {
		t.Errorf("expected bare binary invocation, got %v", args)
	}
}

func TestCommandPicksUpSiblingConfig(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "mediamtx")
	cfg := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(cfg, []byte("rtspAddress: :8554\n"), 0644); err != nil {
		t.Fatal(err)
	}

	args := Command(binary)
	if len(args) != 2 || args[1] != cfg {
		t.Errorf("expected config argument, got %v", args)
	}
}

func TestCommandIgnoresConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "mediamtx")
	if err := os.Mkdir(filepath.Join(dir, ConfigFileName), 0755); err != nil {
		t.Fatal(err)
	}

	args := Command(binary)
	if len(args) != 1 {
		t.Errorf("directory must not be passed as config, got %v", args)
	}
}
