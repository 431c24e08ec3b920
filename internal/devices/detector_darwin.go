//go:build darwin

package devices

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/ffmpeg"
)

const listTimeout = 10 * time.Second

type darwinDetector struct {
	logger *slog.Logger
}

func newDetector(logger *slog.Logger) Detector {
	return &darwinDetector{logger: logger}
}

// FindDevices asks ffmpeg for the AVFoundation device listing, which lands
// on stderr with a nonzero exit.
func (d *darwinDetector) FindDevices(ctx context.Context) ([]Device, error) {
	binary, err := ffmpeg.Locate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	args := ffmpeg.BuildListDevicesArgs(binary)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		d.logger.Debug("Device listing command exited with error", "error", err)
	}

	devices := parseAVFoundation(stderr.String())
	d.logger.Debug("Enumerated AVFoundation devices", "count", len(devices))
	return devices, nil
}

// parseAVFoundation reads lines like
//
//	[AVFoundation indev @ 0x...] [0] FaceTime HD Camera
//
// stopping at the audio section.
func parseAVFoundation(output string) []Device {
	var devices []Device
	capture := false
	for _, line := range strings.Split(output, "\n") {
		s := strings.TrimSpace(line)
		switch {
		case strings.Contains(s, "AVFoundation video devices"):
			capture = true
			continue
		case strings.Contains(s, "AVFoundation audio devices"):
			capture = false
			continue
		}
		if !capture {
			continue
		}
		end := strings.LastIndex(s, "] ")
		if end == -1 {
			continue
		}
		name := strings.TrimSpace(s[end+2:])
		if name != "" {
			devices = append(devices, Device{Name: name})
		}
	}
	return devices
}
