package events

import (
	"github.com/Titan-Dynamics/WebcamRTSP/internal/devices"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/settings"
)

// Event type constants for kelindar/event.
const (
	TypeSessionStateChanged uint32 = iota + 1
	TypeCaptureExit
	TypeDeviceDiscovery
	TypeLogEntry
	TypeSettingsUpdated
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SessionStateChangedEvent reports a session state transition.
type SessionStateChangedEvent struct {
	State     string `json:"state" example:"active" doc:"New session state"`
	Previous  string `json:"previous" example:"starting" doc:"Previous session state"`
	Reason    string `json:"reason,omitempty" example:"capture exited" doc:"Why the transition happened"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Transition timestamp"`
}

// Type returns the event type identifier for SessionStateChangedEvent.
func (e SessionStateChangedEvent) Type() uint32 { return TypeSessionStateChanged }

// CaptureExitEvent reports the capture process leaving, requested or not.
type CaptureExitEvent struct {
	PID       int      `json:"pid" example:"4321" doc:"Process ID of the exited capture"`
	ExitCode  int      `json:"exit_code" example:"1" doc:"Process exit code"`
	Requested bool     `json:"requested" example:"false" doc:"Whether a stop was requested"`
	Tail      []string `json:"tail,omitempty" doc:"Last captured output lines"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Exit timestamp"`
}

// Type returns the event type identifier for CaptureExitEvent.
func (e CaptureExitEvent) Type() uint32 { return TypeCaptureExit }

// DeviceDiscoveryEvent reports a camera enumeration result.
type DeviceDiscoveryEvent struct {
	Devices   []devices.Device `json:"devices" doc:"Cameras found on this host"`
	Timestamp string           `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Enumeration timestamp"`
}

// Type returns the event type identifier for DeviceDiscoveryEvent.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }

// LogEntryEvent carries one log line to SSE subscribers.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"session" doc:"Originating module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

// SettingsUpdatedEvent reports a persisted settings change.
type SettingsUpdatedEvent struct {
	Settings  settings.Settings `json:"settings" doc:"New stream settings"`
	Timestamp string            `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Update timestamp"`
}

// Type returns the event type identifier for SettingsUpdatedEvent.
func (e SettingsUpdatedEvent) Type() uint32 { return TypeSettingsUpdated }
