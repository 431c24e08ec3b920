package devices

import (
	"context"
	"log/slog"
)

// Device is one detected camera.
type Device struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"` // device node where the platform has one (/dev/video0)
}

// Input returns the identifier to hand to the capture command: the device
// node where one exists, the display name otherwise.
func (d Device) Input() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Name
}

// Detector enumerates the cameras available on this host.
type Detector interface {
	FindDevices(ctx context.Context) ([]Device, error)
}

// NewDetector creates the platform detector.
func NewDetector(logger *slog.Logger) Detector {
	return newDetector(logger)
}
