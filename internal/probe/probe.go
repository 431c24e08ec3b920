// Package probe provides TCP readiness polling for external services.
//
// Launching a relay server and having its listener socket bound are two
// different moments; the probe bridges that race by polling the endpoint
// until it accepts a connection or the deadline passes.
package probe

import (
	"context"
	"net"
	"time"
)

// Default polling parameters used during session start.
const (
	DefaultDialTimeout = 500 * time.Millisecond
	DefaultInterval    = 200 * time.Millisecond
	DefaultWaitTimeout = 6 * time.Second
)

// Prober polls TCP endpoints for readiness. The zero value uses defaults.
type Prober struct {
	// DialTimeout bounds each individual connection attempt.
	DialTimeout time.Duration
	// Interval is the pause between attempts.
	Interval time.Duration
}

// WaitForAddr polls addr (host:port) until a TCP connection succeeds or the
// timeout elapses. Returns true on success. Connection errors are never
// surfaced; they only mean "not ready yet". The context cancels the wait
// early, which also returns false.
func (p Prober) WaitForAddr(ctx context.Context, addr string, timeout time.Duration) bool {
	dialTimeout := p.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if isOpen(addr, dialTimeout) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return false
}

func isOpen(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
