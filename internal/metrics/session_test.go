package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
)

func waitForStateMetric(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if CurrentState() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("metrics never observed state %s, still %s", want, CurrentState())
}

func TestObserveTracksStateTransitions(t *testing.T) {
	bus := events.New()
	unsub := Observe(bus)
	defer unsub()

	bus.Publish(events.SessionStateChangedEvent{Previous: "idle", State: "starting"})
	bus.Publish(events.SessionStateChangedEvent{Previous: "starting", State: "active"})
	waitForStateMetric(t, "active")

	if v := testutil.ToFloat64(sessionState.WithLabelValues("active")); v != 1 {
		t.Errorf("active gauge = %v, want 1", v)
	}
	if v := testutil.ToFloat64(sessionState.WithLabelValues("idle")); v != 0 {
		t.Errorf("idle gauge = %v, want 0", v)
	}
	if v := testutil.ToFloat64(sessionTransitions.WithLabelValues("starting", "active")); v < 1 {
		t.Errorf("transition counter = %v, want >= 1", v)
	}
	if v := testutil.ToFloat64(captureStartTime); v <= 0 {
		t.Errorf("start time gauge = %v, want > 0", v)
	}

	bus.Publish(events.SessionStateChangedEvent{Previous: "active", State: "stopping"})
	bus.Publish(events.SessionStateChangedEvent{Previous: "stopping", State: "idle"})
	waitForStateMetric(t, "idle")

	if v := testutil.ToFloat64(captureStartTime); v != 0 {
		t.Errorf("start time gauge = %v after stop, want 0", v)
	}
}

func TestObserveCountsCaptureExits(t *testing.T) {
	bus := events.New()
	unsub := Observe(bus)
	defer unsub()

	before := testutil.ToFloat64(captureExits.WithLabelValues("false"))
	bus.Publish(events.CaptureExitEvent{PID: 1, ExitCode: 137, Requested: false})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(captureExits.WithLabelValues("false")) > before {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if testutil.ToFloat64(captureExits.WithLabelValues("false")) != before+1 {
		t.Errorf("unsolicited exit counter did not increment")
	}
	if v := testutil.ToFloat64(captureLastExitCode); v != 137 {
		t.Errorf("last exit code = %v, want 137", v)
	}
}
