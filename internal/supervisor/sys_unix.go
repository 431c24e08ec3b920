//go:build !windows

package supervisor

import (
	"os"
	"os/exec"
	"syscall"
)

// setSysProcAttr places the child in its own process group so signals
// aimed at the controller do not reach it directly.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// stopProcess requests a graceful stop. ffmpeg and mediamtx both finalize
// their outputs on SIGINT.
func stopProcess(p *os.Process) error {
	return p.Signal(syscall.SIGINT)
}

// signalExitCode maps a signal death to the conventional 128+signal code
// (e.g. 137 for SIGKILL).
func signalExitCode(exitErr *exec.ExitError) (int, bool) {
	ws, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return 128 + int(ws.Signal()), true
}
