package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// LogParser parses a process output line and returns the log level and
// message. Used to extract structured log info from process output
// (ffmpeg, mediamtx, etc.).
type LogParser func(line string) (level, msg string)

// LaunchError reports a failure to spawn the external process: missing
// binary, permission denied, or any other OS rejection.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ErrStillRunning is returned by Terminate when neither the graceful stop
// nor the forced kill brought the process down within its timeouts. The
// caller should clear its bookkeeping anyway; the OS or the next conflict
// resolution pass will reclaim the orphan.
var ErrStillRunning = errors.New("process still running after forced kill")

// Handle is the supervisor's reference to one launched process. It is
// mutated by the drain goroutines (tail appends) and the exit watcher
// (exit code); everyone else reads.
type Handle struct {
	cmd  *exec.Cmd
	args []string
	tail *Tail
	done chan struct{}

	mu       sync.Mutex
	exitCode int
}

// PID returns the OS process ID.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// Args returns a copy of the launch command.
func (h *Handle) Args() []string {
	out := make([]string, len(h.args))
	copy(out, h.args)
	return out
}

// Alive reports whether the process has not yet been reaped.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Done returns a channel closed once the process has exited and its exit
// code is recorded.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// ExitCode returns the recorded exit code. ok is false while the process
// is still running.
func (h *Handle) ExitCode() (code int, ok bool) {
	select {
	case <-h.done:
	default:
		return 0, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitCode, true
}

// Tail returns a snapshot of up to n most recent output lines, oldest
// first. Safe against the concurrently appending drain goroutine.
func (h *Handle) Tail(n int) []string {
	return h.tail.Last(n)
}

func (h *Handle) setExitCode(code int) {
	h.mu.Lock()
	h.exitCode = code
	h.mu.Unlock()
}

// Supervisor launches and supervises external processes of one kind
// (capture or relay). Each Launch produces an independent Handle with its
// own drain goroutines and exit watcher.
type Supervisor struct {
	name         string
	logger       *slog.Logger
	outputLogger *slog.Logger
	parser       LogParser
	tailCapacity int
	killTimeout  time.Duration
	pollInterval time.Duration
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithOutputParser routes process output through logger at the level
// extracted by parser (e.g. ffmpeg's "[error] ..." stderr format).
func WithOutputParser(logger *slog.Logger, parser LogParser) Option {
	return func(s *Supervisor) {
		s.outputLogger = logger
		s.parser = parser
	}
}

// WithTailCapacity overrides the per-handle tail buffer size.
func WithTailCapacity(n int) Option {
	return func(s *Supervisor) { s.tailCapacity = n }
}

// WithKillTimeout overrides how long Terminate waits after a forced kill
// before giving up on the process.
func WithKillTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.killTimeout = d }
}

// New creates a supervisor. The name labels log lines ("ffmpeg",
// "mediamtx").
func New(name string, logger *slog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		name:         name,
		logger:       logger,
		tailCapacity: DefaultTailCapacity,
		killTimeout:  5 * time.Second,
		pollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Launch starts the process described by args with the optional working
// directory and begins draining its output. It is the caller's
// responsibility to confirm any previous handle from this supervisor is no
// longer alive before relaunching.
func (s *Supervisor) Launch(args []string, dir string) (*Handle, error) {
	if len(args) == 0 {
		return nil, &LaunchError{Path: s.name, Err: errors.New("empty command")}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &LaunchError{Path: args[0], Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &LaunchError{Path: args[0], Err: err}
	}

	if err := cmd.Start(); err != nil {
		s.logger.Error("Failed to start process", "name", s.name, "command", strings.Join(args, " "), "error", err)
		return nil, &LaunchError{Path: args[0], Err: err}
	}

	h := &Handle{
		cmd:  cmd,
		args: append([]string(nil), args...),
		tail: NewTail(s.tailCapacity),
		done: make(chan struct{}),
	}

	s.logger.Info("Process started", "name", s.name, "pid", cmd.Process.Pid, "command", strings.Join(args, " "))

	// Drain both output streams into the tail
	var drains sync.WaitGroup
	drains.Add(2)
	go func() {
		defer drains.Done()
		s.drain(h, stdout, "stdout")
	}()
	go func() {
		defer drains.Done()
		s.drain(h, stderr, "stderr")
	}()

	// Exit watcher: output must be fully drained before Wait per os/exec.
	go func() {
		drains.Wait()
		waitErr := cmd.Wait()
		code := exitCodeFromError(waitErr)
		h.setExitCode(code)
		close(h.done)
		s.logger.Info("Process exited", "name", s.name, "pid", cmd.Process.Pid, "exit_code", code)
	}()

	return h, nil
}

// drain reads one output stream line by line into the handle's tail buffer.
// No artificial delay, no unbounded buffering; any read error simply ends
// the loop.
func (s *Supervisor) drain(h *Handle, reader io.Reader, source string) {
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		h.tail.Append(line)

		if s.outputLogger == nil {
			continue
		}
		level, msg := "info", line
		if s.parser != nil {
			level, msg = s.parser(line)
		}
		switch level {
		case "fatal", "error":
			s.outputLogger.Error(msg)
		case "warning", "warn":
			s.outputLogger.Warn(msg)
		case "debug", "trace", "verbose":
			s.outputLogger.Debug(msg)
		default:
			s.outputLogger.Info(msg)
		}
	}

	if err := scanner.Err(); err != nil {
		s.logger.Debug("Output stream ended with error", "name", s.name, "source", source, "error", err)
	}
}

// AwaitExit blocks until the process exits and returns its exit code.
func (s *Supervisor) AwaitExit(h *Handle) int {
	<-h.done
	code, _ := h.ExitCode()
	return code
}

// Terminate sends the graceful stop signal, polls liveness every 100ms up
// to grace, then escalates to a forced kill. Terminating an already-exited
// handle is a no-op, not an error.
func (s *Supervisor) Terminate(h *Handle, grace time.Duration) error {
	if h == nil || !h.Alive() {
		return nil
	}

	s.logger.Info("Stopping process", "name", s.name, "pid", h.cmd.Process.Pid)
	if err := stopProcess(h.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Warn("Failed to send stop signal", "name", s.name, "error", err)
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !h.Alive() {
			return nil
		}
		time.Sleep(s.pollInterval)
	}
	if !h.Alive() {
		return nil
	}

	s.logger.Warn("Graceful stop timed out, forcing kill", "name", s.name, "pid", h.cmd.Process.Pid, "grace", grace)
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Error("Failed to kill process", "name", s.name, "error", err)
	}

	select {
	case <-h.done:
		return nil
	case <-time.After(s.killTimeout):
		s.logger.Error("Process did not exit after kill signal", "name", s.name, "pid", h.cmd.Process.Pid)
		return ErrStillRunning
	}
}

// exitCodeFromError extracts an exit code from cmd.Wait's error. Signal
// deaths map to 128+signal on platforms that report them.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := signalExitCode(exitErr); ok {
			return code
		}
		return exitErr.ExitCode()
	}
	return 1
}
