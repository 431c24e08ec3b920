//go:build windows

package conflict

import (
	"os/exec"
	"strings"
	"time"
)

const killTimeout = 5 * time.Second

// killByName issues taskkill /IM name /F. The image name must carry the
// .exe suffix for taskkill to match.
func (r *ExecResolver) killByName(name string) {
	if !strings.HasSuffix(strings.ToLower(name), ".exe") {
		name += ".exe"
	}

	r.logger.Debug("Clearing stray processes", "image", name)

	cmd := exec.Command("taskkill", "/IM", name, "/F")
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		r.logger.Warn("Failed to run taskkill", "error", err)
		return
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			// taskkill exits 128 when no process matched; advisory either way.
			r.logger.Debug("taskkill finished", "image", name, "error", err)
		}
	case <-time.After(killTimeout):
		_ = cmd.Process.Kill()
		r.logger.Warn("taskkill timed out", "image", name)
	}
}
