//go:build windows

package devices

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/ffmpeg"
)

const listTimeout = 10 * time.Second

type windowsDetector struct {
	logger *slog.Logger
}

func newDetector(logger *slog.Logger) Detector {
	return &windowsDetector{logger: logger}
}

// FindDevices asks ffmpeg for the DirectShow device listing. ffmpeg prints
// it to stderr and exits nonzero because the dummy input cannot open, so
// the run error is ignored as long as there is output to parse.
func (d *windowsDetector) FindDevices(ctx context.Context) ([]Device, error) {
	binary, err := ffmpeg.Locate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	args := ffmpeg.BuildListDevicesArgs(binary)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		d.logger.Debug("Device listing command exited with error", "error", err)
	}

	names := ParseDShowDevices(stderr.String() + "\n" + stdout.String())
	devices := make([]Device, len(names))
	for i, name := range names {
		devices[i] = Device{Name: name}
	}
	d.logger.Debug("Enumerated DirectShow devices", "count", len(devices))
	return devices, nil
}
