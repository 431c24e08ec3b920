//go:build windows

package supervisor

import (
	"os"
	"os/exec"
)

func setSysProcAttr(cmd *exec.Cmd) {}

// stopProcess kills the child outright. Windows has no SIGINT delivery to
// a non-console child, so the grace window degrades to an immediate kill.
func stopProcess(p *os.Process) error {
	return p.Kill()
}

func signalExitCode(exitErr *exec.ExitError) (int, bool) {
	return 0, false
}
