package ffmpeg

import "strings"

// Defaults applied when a capture parameter is left empty.
const (
	DefaultResolution = "640x480"
	DefaultFPS        = "30"
)

// Params describes one camera capture pipeline. Empty fields fall back to
// defaults; Device has no default and must name a camera.
type Params struct {
	Device     string // camera name (dshow/avfoundation) or device path (v4l2)
	Resolution string // 640x480
	FPS        string // 30
	OutputURL  string // rtsp://host:port/path
}

// Normalize fills defaulted fields and trims whitespace.
func (p Params) Normalize() Params {
	p.Device = strings.TrimSpace(p.Device)
	p.Resolution = strings.TrimSpace(p.Resolution)
	p.FPS = strings.TrimSpace(p.FPS)
	if p.Resolution == "" {
		p.Resolution = DefaultResolution
	}
	if p.FPS == "" {
		p.FPS = DefaultFPS
	}
	return p
}
