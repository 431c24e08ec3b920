package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/conflict"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/probe"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/rtsp"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/supervisor"
)

// DefaultGraceTimeout is how long a stop waits before escalating to a
// forced kill.
const DefaultGraceTimeout = 2 * time.Second

// diagnosticLines is how much tail is attached to failure reports.
const diagnosticLines = 20

// ReadinessProbe is the readiness check the controller runs between relay
// launch and capture launch.
type ReadinessProbe interface {
	WaitForAddr(ctx context.Context, addr string, timeout time.Duration) bool
}

// Options wires the controller's collaborators. Capture and Relay
// supervisors plus the command sources are required; everything else has a
// working default.
type Options struct {
	Logger *slog.Logger
	Bus    *events.Bus

	Capture *supervisor.Supervisor
	Relay   *supervisor.Supervisor

	// CaptureCommand and RelayCommand build the launch argv at start
	// time so settings edits between sessions take effect.
	CaptureCommand func() ([]string, error)
	RelayCommand   func() ([]string, error)
	Target         func() rtsp.Target

	Probe    ReadinessProbe
	Resolver conflict.Resolver

	// Executable names for conflict resolution, not paths.
	CaptureProcName string
	RelayProcName   string

	ReadinessTimeout time.Duration
	GraceTimeout     time.Duration
}

// Controller owns the session state machine and both process handles. All
// state mutations happen on the control path under one mutex; the exit
// watcher posts its completion through the same mutex. A stop issued while
// a start is in flight blocks until the start resolves, then proceeds.
type Controller struct {
	opts   Options
	logger *slog.Logger

	mu            sync.Mutex
	state         State
	capture       *supervisor.Handle
	relay         *supervisor.Handle
	relayLaunched bool
	stopRequested bool
	lastError     string
	lastTail      []string
}

// New creates the controller and clears any stray relay instance left over
// from a previous run, so the first start does not find the port taken.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Probe == nil {
		opts.Probe = probe.Prober{}
	}
	if opts.CaptureProcName == "" {
		opts.CaptureProcName = "ffmpeg"
	}
	if opts.RelayProcName == "" {
		opts.RelayProcName = "mediamtx"
	}
	if opts.ReadinessTimeout <= 0 {
		opts.ReadinessTimeout = probe.DefaultWaitTimeout
	}
	if opts.GraceTimeout <= 0 {
		opts.GraceTimeout = DefaultGraceTimeout
	}

	c := &Controller{
		opts:   opts,
		logger: opts.Logger,
		state:  StateIdle,
	}
	if opts.Resolver != nil {
		c.logger.Debug("Clearing stray relay processes", "name", opts.RelayProcName)
		opts.Resolver.KillAll(opts.RelayProcName)
	}
	return c
}

// Start brings up the session: clear strays, ensure the relay, confirm
// readiness, launch the capture. On any failure nothing launched in this
// attempt is left running. A start while the capture is already alive is a
// no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil && c.capture.Alive() {
		c.logger.Info("Start ignored, capture already running", "pid", c.capture.PID())
		return nil
	}

	c.setState(StateStarting, "")
	c.lastError = ""
	c.lastTail = nil

	// Clear strays. A live relay we supervise is not a stray; killing it
	// by name would tear down our own reuse candidate.
	relayAlive := c.relay != nil && c.relay.Alive()
	if c.opts.Resolver != nil {
		c.opts.Resolver.KillAll(c.opts.CaptureProcName)
		if !relayAlive {
			c.opts.Resolver.KillAll(c.opts.RelayProcName)
		}
	}

	target := c.opts.Target()

	freshRelay := false
	if !relayAlive {
		c.relay = nil
		c.relayLaunched = false

		args, err := c.opts.RelayCommand()
		if err != nil {
			return c.failLocked(&supervisor.LaunchError{Path: c.opts.RelayProcName, Err: err})
		}
		h, err := c.opts.Relay.Launch(args, "")
		if err != nil {
			return c.failLocked(err)
		}
		c.relay = h
		c.relayLaunched = true
		freshRelay = true
	}

	if !c.opts.Probe.WaitForAddr(ctx, target.Addr(), c.opts.ReadinessTimeout) {
		rerr := &ReadinessError{Addr: target.Addr(), Timeout: c.opts.ReadinessTimeout}
		if c.relay != nil {
			rerr.RelayTail = c.relay.Tail(diagnosticLines)
		}
		if freshRelay {
			c.teardownRelayLocked()
		}
		c.lastTail = rerr.RelayTail
		return c.failLocked(rerr)
	}

	args, err := c.opts.CaptureCommand()
	if err != nil {
		if freshRelay {
			c.teardownRelayLocked()
		}
		return c.failLocked(&supervisor.LaunchError{Path: c.opts.CaptureProcName, Err: err})
	}
	h, err := c.opts.Capture.Launch(args, "")
	if err != nil {
		if freshRelay {
			c.teardownRelayLocked()
		}
		return c.failLocked(err)
	}

	c.capture = h
	c.stopRequested = false
	c.setState(StateActive, "")

	go func() {
		<-h.Done()
		c.onCaptureExit(h)
	}()
	return nil
}

// Stop tears the session down: capture first with grace escalation, then
// the relay, but only if this controller launched it. Stopping with
// nothing running is a no-op and does not change state.
func (c *Controller) Stop(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	captureAlive := c.capture != nil && c.capture.Alive()
	relayOwned := c.relayLaunched && c.relay != nil && c.relay.Alive()
	if !captureAlive && !relayOwned {
		return
	}

	c.setState(StateStopping, "")
	c.stopRequested = true

	if c.capture != nil {
		if err := c.opts.Capture.Terminate(c.capture, c.opts.GraceTimeout); err != nil {
			c.logger.Error("Capture termination failed", "error", err)
		}
		if code, ok := c.capture.ExitCode(); ok {
			c.publish(events.CaptureExitEvent{
				PID:       c.capture.PID(),
				ExitCode:  code,
				Requested: true,
				Timestamp: timestamp(),
			})
		}
		c.capture = nil
	}
	if relayOwned {
		c.teardownRelayLocked()
	}

	c.stopRequested = false
	c.setState(StateIdle, "")
}

// Toggle dispatches to Start or Stop on current capture liveness. This is
// the single entry point a control surface needs.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	alive := c.capture != nil && c.capture.Alive()
	c.mu.Unlock()

	if alive {
		c.Stop(ctx)
		return nil
	}
	return c.Start(ctx)
}

// Close is the shutdown guarantee: both supervised processes are
// terminated regardless of current state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopRequested = true
	if c.capture != nil {
		if err := c.opts.Capture.Terminate(c.capture, c.opts.GraceTimeout); err != nil {
			c.logger.Error("Capture termination failed during shutdown", "error", err)
		}
		c.capture = nil
	}
	if c.relay != nil {
		if err := c.opts.Relay.Terminate(c.relay, c.opts.GraceTimeout); err != nil {
			c.logger.Error("Relay termination failed during shutdown", "error", err)
		}
		c.relay = nil
		c.relayLaunched = false
	}
	c.setState(StateIdle, "shutdown")
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot is a point-in-time view for status reporting.
type Snapshot struct {
	State         string   `json:"state"`
	CapturePID    int      `json:"capture_pid,omitempty"`
	RelayPID      int      `json:"relay_pid,omitempty"`
	RelayLaunched bool     `json:"relay_launched"`
	TargetURL     string   `json:"target_url"`
	LastError     string   `json:"last_error,omitempty"`
	Tail          []string `json:"tail,omitempty"`
}

// Snapshot reports the current state, process IDs and diagnostic tail.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:         c.state.String(),
		RelayLaunched: c.relayLaunched,
		TargetURL:     c.opts.Target().URL(),
		LastError:     c.lastError,
		Tail:          c.lastTail,
	}
	if c.capture != nil && c.capture.Alive() {
		snap.CapturePID = c.capture.PID()
		snap.Tail = c.capture.Tail(diagnosticLines)
	}
	if c.relay != nil && c.relay.Alive() {
		snap.RelayPID = c.relay.PID()
	}
	return snap
}

// onCaptureExit runs on the watcher goroutine once the capture process is
// reaped. Requested stops are resolved by the control path; this only
// handles the unsolicited case.
func (c *Controller) onCaptureExit(h *supervisor.Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != h {
		return
	}
	code, _ := h.ExitCode()
	tail := h.Tail(diagnosticLines)
	requested := c.stopRequested
	c.capture = nil

	c.publish(events.CaptureExitEvent{
		PID:       h.PID(),
		ExitCode:  code,
		Requested: requested,
		Tail:      tail,
		Timestamp: timestamp(),
	})
	if requested {
		return
	}

	if code == 0 {
		c.logger.Info("Capture process completed", "exit_code", code)
		c.setState(StateIdle, "capture completed")
		return
	}

	c.logger.Error("Capture process exited unexpectedly", "exit_code", code, "tail_lines", len(tail))
	c.lastTail = tail
	c.lastError = fmt.Sprintf("capture exited with code %d", code)
	c.setState(StateFailed, c.lastError)
}

// failLocked records a failed start attempt and returns err to the caller.
func (c *Controller) failLocked(err error) error {
	c.lastError = err.Error()
	c.setState(StateFailed, err.Error())
	return err
}

// teardownRelayLocked stops the relay this controller launched. The handle
// is cleared even when termination fails; the next conflict resolution
// pass will catch an orphan.
func (c *Controller) teardownRelayLocked() {
	if c.relay == nil {
		return
	}
	if err := c.opts.Relay.Terminate(c.relay, c.opts.GraceTimeout); err != nil {
		c.logger.Error("Relay termination failed", "error", err)
	}
	c.relay = nil
	c.relayLaunched = false
}

func (c *Controller) setState(next State, reason string) {
	if c.state == next {
		return
	}
	prev := c.state
	c.state = next
	c.logger.Info("Session state changed", "from", prev.String(), "to", next.String(), "reason", reason)
	c.publish(events.SessionStateChangedEvent{
		State:     next.String(),
		Previous:  prev.String(),
		Reason:    reason,
		Timestamp: timestamp(),
	})
}

func (c *Controller) publish(ev events.Event) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(ev)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
