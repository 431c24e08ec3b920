package settings

import (
	"github.com/Titan-Dynamics/WebcamRTSP/internal/ffmpeg"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/rtsp"
)

// Settings are the user-tunable stream parameters persisted between runs.
type Settings struct {
	Device     string `json:"device,omitempty" toml:"device"`
	Resolution string `json:"resolution,omitempty" toml:"resolution"`
	FPS        string `json:"fps,omitempty" toml:"fps"`
	Host       string `json:"host,omitempty" toml:"host"`
	Port       int    `json:"port,omitempty" toml:"port"`
	Path       string `json:"path,omitempty" toml:"path"`
}

// Default returns the settings used before the user has saved anything.
func Default() Settings {
	return Settings{
		Resolution: ffmpeg.DefaultResolution,
		FPS:        ffmpeg.DefaultFPS,
		Host:       rtsp.DefaultHost,
		Port:       rtsp.DefaultPort,
		Path:       rtsp.DefaultPath,
	}
}

// Target builds the normalized RTSP target from the endpoint fields.
func (s Settings) Target() rtsp.Target {
	return rtsp.Target{Host: s.Host, Port: s.Port, Path: s.Path}.Normalize()
}

// CaptureParams builds the capture parameters. The output URL comes from
// Target so both processes agree on the endpoint.
func (s Settings) CaptureParams() ffmpeg.Params {
	return ffmpeg.Params{
		Device:     s.Device,
		Resolution: s.Resolution,
		FPS:        s.FPS,
		OutputURL:  s.Target().URL(),
	}.Normalize()
}

// Merge overlays non-empty fields of other onto s. Used when applying a
// partial update from the API.
func (s Settings) Merge(other Settings) Settings {
	if other.Device != "" {
		s.Device = other.Device
	}
	if other.Resolution != "" {
		s.Resolution = other.Resolution
	}
	if other.FPS != "" {
		s.FPS = other.FPS
	}
	if other.Host != "" {
		s.Host = other.Host
	}
	if other.Port != 0 {
		s.Port = other.Port
	}
	if other.Path != "" {
		s.Path = other.Path
	}
	return s
}
