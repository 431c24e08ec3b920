package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func resetState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	logBuffer = nil
	logCallback = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"session": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"session", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			if got := handler.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, got, tt.wantDebug)
			}
			if got := handler.Enabled(context.Background(), slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, got, tt.wantInfo)
			}
			if got := handler.Enabled(context.Background(), slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, got, tt.wantWarn)
			}
		})
	}
}

func TestRingBufferEviction(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Write(LogEntry{
			Timestamp: time.Now(),
			Level:     "info",
			Module:    "test",
			Message:   string(rune('a' + i)),
		})
	}

	entries := rb.ReadAll()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Oldest two evicted, remaining in chronological order
	want := []string{"c", "d", "e"}
	for i, entry := range entries {
		if entry.Message != want[i] {
			t.Errorf("entry %d: message = %q, want %q", i, entry.Message, want[i])
		}
	}
}

func TestBufferHandlerCapturesLogs(t *testing.T) {
	resetState()

	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("capture-test")
	logger.Info("hello", "pid", 42)

	entries := GetBuffer().ReadAll()
	if len(entries) == 0 {
		t.Fatal("expected at least one buffered entry")
	}

	last := entries[len(entries)-1]
	if last.Module != "capture-test" {
		t.Errorf("module = %q, want %q", last.Module, "capture-test")
	}
	if last.Message != "hello" {
		t.Errorf("message = %q, want %q", last.Message, "hello")
	}
	if v, ok := last.Attributes["pid"]; !ok || v != int64(42) {
		t.Errorf("pid attribute = %v, want 42", v)
	}
}

func TestLogCallback(t *testing.T) {
	resetState()

	Initialize(Config{Level: "info", Format: "text"})

	got := make(chan LogEntry, 1)
	SetLogCallback(func(entry LogEntry) {
		select {
		case got <- entry:
		default:
		}
	})

	GetLogger("cb-test").Info("callback message")

	select {
	case entry := <-got:
		if entry.Message != "callback message" {
			t.Errorf("message = %q, want %q", entry.Message, "callback message")
		}
	case <-time.After(time.Second):
		t.Fatal("callback was not invoked")
	}
}
