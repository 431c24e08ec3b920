//go:build !windows

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/rtsp"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/supervisor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingResolver counts conflict-resolution passes per executable name.
type recordingResolver struct {
	mu    sync.Mutex
	kills []string
}

func (r *recordingResolver) KillAll(name string) {
	r.mu.Lock()
	r.kills = append(r.kills, name)
	r.mu.Unlock()
}

func (r *recordingResolver) killed(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.kills {
		if k == name {
			n++
		}
	}
	return n
}

type harness struct {
	controller   *Controller
	resolver     *recordingResolver
	listener     net.Listener
	captureCalls atomic.Int32
	relayCalls   atomic.Int32
}

// newHarness wires a controller against real child processes. The relay
// "process" is a long-lived sh; readiness is satisfied by a TCP listener
// the test owns, on the port the target points at.
func newHarness(t *testing.T, captureCmd []string) *harness {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	port := ln.Addr().(*net.TCPAddr).Port

	h := &harness{
		resolver: &recordingResolver{},
		listener: ln,
	}
	h.controller = New(Options{
		Logger:  testLogger(),
		Capture: supervisor.New("capture", testLogger()),
		Relay:   supervisor.New("relay", testLogger()),
		CaptureCommand: func() ([]string, error) {
			h.captureCalls.Add(1)
			return captureCmd, nil
		},
		RelayCommand: func() ([]string, error) {
			h.relayCalls.Add(1)
			return []string{"sh", "-c", "trap 'exit 0' INT TERM; while true; do sleep 0.1; done"}, nil
		},
		Target: func() rtsp.Target {
			return rtsp.Target{Host: "127.0.0.1", Port: port, Path: "live.stream"}
		},
		Resolver:         h.resolver,
		CaptureProcName:  "test-capture",
		RelayProcName:    "test-relay",
		ReadinessTimeout: 2 * time.Second,
		GraceTimeout:     time.Second,
	})
	t.Cleanup(h.controller.Close)
	return h
}

func waitForState(t *testing.T, c *Controller, want State) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if c.State() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("state never became %s, still %s", want, c.State())
}

var longCapture = []string{"sh", "-c", "trap 'exit 0' INT TERM; while true; do sleep 0.1; done"}

func TestStartBringsSessionActive(t *testing.T) {
	h := newHarness(t, longCapture)

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := h.controller.State(); got != StateActive {
		t.Fatalf("expected active, got %s", got)
	}

	snap := h.controller.Snapshot()
	if snap.CapturePID == 0 || snap.RelayPID == 0 {
		t.Errorf("expected both processes running: %+v", snap)
	}
	if !snap.RelayLaunched {
		t.Error("expected relay marked as launched by this controller")
	}

	// One pass at init for the relay, one more per start for each name.
	if h.resolver.killed("test-relay") != 2 {
		t.Errorf("expected init + pre-start relay conflict passes, got %d", h.resolver.killed("test-relay"))
	}
	if h.resolver.killed("test-capture") != 1 {
		t.Errorf("expected one capture conflict pass, got %d", h.resolver.killed("test-capture"))
	}
}

func TestStartIsIdempotentWhileCaptureAlive(t *testing.T) {
	h := newHarness(t, longCapture)

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	firstPID := h.controller.Snapshot().CapturePID

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("second start errored: %v", err)
	}
	if h.captureCalls.Load() != 1 {
		t.Errorf("second start must not build a second capture command, got %d calls", h.captureCalls.Load())
	}
	if pid := h.controller.Snapshot().CapturePID; pid != firstPID {
		t.Errorf("capture process changed: %d -> %d", firstPID, pid)
	}
}

func TestReadinessTimeoutFailsAndTearsDownRelay(t *testing.T) {
	h := newHarness(t, longCapture)

	// Free the port so nothing is listening during the probe window.
	h.listener.Close()
	h.controller.opts.ReadinessTimeout = 400 * time.Millisecond

	err := h.controller.Start(context.Background())
	if err == nil {
		t.Fatal("expected readiness failure")
	}
	var rerr *ReadinessError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReadinessError, got %T: %v", err, err)
	}

	if got := h.controller.State(); got != StateFailed {
		t.Errorf("expected failed, got %s", got)
	}
	if h.captureCalls.Load() != 0 {
		t.Error("capture must not launch after readiness timeout")
	}
	snap := h.controller.Snapshot()
	if snap.RelayPID != 0 {
		t.Errorf("freshly launched relay must be torn down, snapshot %+v", snap)
	}
}

func TestCaptureLaunchErrorFails(t *testing.T) {
	h := newHarness(t, []string{"/nonexistent/capture-binary"})

	err := h.controller.Start(context.Background())
	if err == nil {
		t.Fatal("expected launch failure")
	}
	var launchErr *supervisor.LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected LaunchError, got %T: %v", err, err)
	}
	if got := h.controller.State(); got != StateFailed {
		t.Errorf("expected failed, got %s", got)
	}
	if snap := h.controller.Snapshot(); snap.RelayPID != 0 {
		t.Error("relay launched for the failed attempt must be torn down")
	}
}

func TestUnsolicitedExitNonZeroFailsWithTail(t *testing.T) {
	h := newHarness(t, []string{"sh", "-c", "echo device gone >&2; sleep 0.2; exit 7"})

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitForState(t, h.controller, StateFailed)

	snap := h.controller.Snapshot()
	if len(snap.Tail) == 0 {
		t.Error("expected diagnostic tail after unsolicited failure")
	}
	if snap.LastError == "" {
		t.Error("expected failure reason recorded")
	}
	if snap.CapturePID != 0 {
		t.Error("capture handle must be cleared")
	}
}

func TestUnsolicitedExitZeroReturnsToIdle(t *testing.T) {
	h := newHarness(t, []string{"sh", "-c", "sleep 0.2; exit 0"})

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitForState(t, h.controller, StateIdle)

	if snap := h.controller.Snapshot(); snap.LastError != "" {
		t.Errorf("clean completion must not be reported as an error: %+v", snap)
	}
}

func TestRelayReusedAcrossSessions(t *testing.T) {
	h := newHarness(t, []string{"sh", "-c", "sleep 0.2; exit 0"})

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitForState(t, h.controller, StateIdle)

	// Capture finished on its own; the relay stays up and the second
	// start reuses it instead of killing and relaunching.
	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if h.relayCalls.Load() != 1 {
		t.Errorf("expected relay launched once and reused, got %d launches", h.relayCalls.Load())
	}
}

func TestStopTerminatesCaptureThenRelay(t *testing.T) {
	h := newHarness(t, longCapture)

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	h.controller.Stop(context.Background())

	if got := h.controller.State(); got != StateIdle {
		t.Errorf("expected idle after stop, got %s", got)
	}
	snap := h.controller.Snapshot()
	if snap.CapturePID != 0 || snap.RelayPID != 0 {
		t.Errorf("expected both processes gone: %+v", snap)
	}
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	h := newHarness(t, longCapture)

	h.controller.Stop(context.Background())
	if got := h.controller.State(); got != StateIdle {
		t.Errorf("stop while idle changed state to %s", got)
	}
}

func TestToggleDispatchesOnLiveness(t *testing.T) {
	h := newHarness(t, longCapture)

	if err := h.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle up failed: %v", err)
	}
	if got := h.controller.State(); got != StateActive {
		t.Fatalf("expected active after first toggle, got %s", got)
	}

	if err := h.controller.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle down failed: %v", err)
	}
	if got := h.controller.State(); got != StateIdle {
		t.Errorf("expected idle after second toggle, got %s", got)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	h := newHarness(t, longCapture)

	h.listener.Close()
	h.controller.opts.ReadinessTimeout = 300 * time.Millisecond
	if err := h.controller.Start(context.Background()); err == nil {
		t.Fatal("expected first start to fail")
	}

	// Rebind the port and retry from Failed.
	ln, err := net.Listen("tcp", h.listener.Addr().String())
	if err != nil {
		t.Skipf("could not rebind port: %v", err)
	}
	defer ln.Close()

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := h.controller.State(); got != StateActive {
		t.Errorf("expected active after retry, got %s", got)
	}
}

func TestCloseTerminatesEverything(t *testing.T) {
	h := newHarness(t, longCapture)

	if err := h.controller.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	h.controller.Close()

	snap := h.controller.Snapshot()
	if snap.CapturePID != 0 || snap.RelayPID != 0 {
		t.Errorf("expected both processes terminated on close: %+v", snap)
	}
	if got := h.controller.State(); got != StateIdle {
		t.Errorf("expected idle after close, got %s", got)
	}
}
