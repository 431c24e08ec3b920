// Package conflict clears stray processes that would contend for the relay
// port or the camera device.
//
// The relay server binds a fixed, user-configured port; a stale instance
// left over from a previous run causes silent connection refusal or a
// misleading stream from the wrong process. Termination is by executable
// name, system-wide, and strictly best-effort: the subsequent launch attempt
// is the authoritative test of success.
package conflict

import (
	"log/slog"
	"time"
)

// DefaultSettle is how long KillAll pauses after issuing termination so the
// OS can reclaim the processes before the caller relaunches.
const DefaultSettle = 200 * time.Millisecond

// Resolver terminates processes by executable name.
type Resolver interface {
	// KillAll terminates every process whose executable matches name.
	// Absence of the platform tool, absence of matching processes, and
	// permission failures are all swallowed and logged.
	KillAll(name string)
}

// ExecResolver shells out to the platform process tools (taskkill on
// Windows, pkill/killall elsewhere).
type ExecResolver struct {
	logger *slog.Logger
	settle time.Duration
}

// Option configures an ExecResolver.
type Option func(*ExecResolver)

// WithSettle overrides the post-kill settle delay.
func WithSettle(d time.Duration) Option {
	return func(r *ExecResolver) { r.settle = d }
}

// NewResolver creates a resolver that logs its advisory outcomes to logger.
func NewResolver(logger *slog.Logger, opts ...Option) *ExecResolver {
	r := &ExecResolver{logger: logger, settle: DefaultSettle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// KillAll issues a system-wide kill for processes matching name and waits
// briefly for OS reclamation. Never returns an error: every failure mode is
// advisory.
func (r *ExecResolver) KillAll(name string) {
	if name == "" {
		return
	}
	r.killByName(name)
	if r.settle > 0 {
		time.Sleep(r.settle)
	}
}
