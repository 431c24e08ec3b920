//go:build !windows

package conflict

import (
	"os/exec"
	"strings"
	"time"
)

const killTimeout = 5 * time.Second

// killByName issues pkill -f, falling back to killall when pkill is not
// installed. Non-zero exits (no matching process, permission denied) are
// logged and ignored.
func (r *ExecResolver) killByName(name string) {
	if _, err := exec.LookPath("pkill"); err == nil {
		r.run("pkill", "-f", name)
		return
	}
	if _, err := exec.LookPath("killall"); err == nil {
		r.run("killall", name)
		return
	}
	r.logger.Warn("No process kill tool available", "target", name)
}

func (r *ExecResolver) run(args ...string) {
	r.logger.Debug("Clearing stray processes", "command", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		r.logger.Warn("Failed to run kill tool", "command", args[0], "error", err)
		return
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			// pkill exits 1 when nothing matched; advisory either way.
			r.logger.Debug("Kill tool finished", "command", args[0], "error", err)
		}
	case <-time.After(killTimeout):
		_ = cmd.Process.Kill()
		r.logger.Warn("Kill tool timed out", "command", args[0])
	}
}
