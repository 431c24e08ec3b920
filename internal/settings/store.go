package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Store persists settings as TOML in the per-user configuration
// directory. Loads are tolerant: a missing or unreadable file yields the
// defaults so a fresh install or a corrupted file never blocks startup.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	current Settings
	loaded  bool
}

// DefaultPath returns the settings file location under the OS config
// directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "webcamrtsp", "settings.toml"), nil
}

// NewStore creates a store persisting at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the file this store persists to.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted settings, falling back to defaults when the
// file is missing or malformed. The result is cached; later Get calls
// return it without touching disk.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.current
	}
	s.current = Default()
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read settings file, using defaults", "path", s.path, "error", err)
		}
		return s.current
	}

	var persisted Settings
	if err := toml.Unmarshal(data, &persisted); err != nil {
		s.logger.Warn("Failed to parse settings file, using defaults", "path", s.path, "error", err)
		return s.current
	}
	s.current = Default().Merge(persisted)
	return s.current
}

// Get returns the current settings, loading them on first use.
func (s *Store) Get() Settings {
	return s.Load()
}

// Reload discards the cached settings and re-reads the file. Used by the
// config watcher when the settings file changes on disk.
func (s *Store) Reload() Settings {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	return s.Load()
}

// Save persists settings atomically: write to a temp file in the same
// directory, then rename over the target.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	s.current = settings
	s.loaded = true
	s.logger.Debug("Settings saved", "path", s.path)
	return nil
}
