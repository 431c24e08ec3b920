// Package metrics provides Prometheus metrics for the stream session.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
)

var (
	sessionState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "webcamrtsp",
		Subsystem: "session",
		Name:      "state",
		Help:      "Current session state (1 for the active state, 0 otherwise)",
	}, []string{"state"})

	sessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webcamrtsp",
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Session state transitions",
	}, []string{"from", "to"})

	captureExits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webcamrtsp",
		Subsystem: "capture",
		Name:      "exits_total",
		Help:      "Capture process exits, split by whether a stop was requested",
	}, []string{"requested"})

	captureLastExitCode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "webcamrtsp",
		Subsystem: "capture",
		Name:      "last_exit_code",
		Help:      "Exit code of the most recent capture process exit",
	})

	captureStartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "webcamrtsp",
		Subsystem: "capture",
		Name:      "start_time_seconds",
		Help:      "Unix time the capture process became active, 0 when not running",
	})

	knownStates = []string{"idle", "starting", "active", "stopping", "failed"}

	currentMu    sync.RWMutex
	currentState = "idle"
)

// HTTPHandler returns the Prometheus metrics HTTP handler.
// This collects all promauto-registered metrics automatically.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}

// Observe subscribes the session metrics to the event bus. Returns an
// unsubscribe function.
func Observe(bus *events.Bus) func() {
	setState("idle")

	unsubState := bus.Subscribe(func(e events.SessionStateChangedEvent) {
		sessionTransitions.WithLabelValues(e.Previous, e.State).Inc()
		setState(e.State)
		switch e.State {
		case "active":
			captureStartTime.Set(float64(time.Now().Unix()))
		case "idle", "failed":
			captureStartTime.Set(0)
		}
	})
	unsubExit := bus.Subscribe(func(e events.CaptureExitEvent) {
		captureExits.WithLabelValues(boolLabel(e.Requested)).Inc()
		captureLastExitCode.Set(float64(e.ExitCode))
	})

	return func() {
		unsubState()
		unsubExit()
	}
}

// CurrentState returns the last state the metrics observed.
func CurrentState() string {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return currentState
}

func setState(state string) {
	currentMu.Lock()
	currentState = state
	currentMu.Unlock()

	for _, s := range knownStates {
		v := 0.0
		if s == state {
			v = 1.0
		}
		sessionState.WithLabelValues(s).Set(v)
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
