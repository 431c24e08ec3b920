package mediamtx

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrNotFound is returned when no mediamtx binary can be located.
var ErrNotFound = errors.New("mediamtx binary not found")

// Locate finds the mediamtx binary: next to the running executable first,
// then the current directory, then PATH.
func Locate() (string, error) {
	names := []string{"mediamtx"}
	if runtime.GOOS == "windows" {
		names = []string{"mediamtx.exe", "mediamtx"}
	}

	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}
