//go:build linux

package devices

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type linuxDetector struct {
	logger *slog.Logger
}

func newDetector(logger *slog.Logger) Detector {
	return &linuxDetector{logger: logger}
}

// FindDevices globs /dev/video* and resolves friendly names through sysfs.
// No ffmpeg invocation needed on Linux.
func (d *linuxDetector) FindDevices(ctx context.Context) ([]Device, error) {
	paths, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var devices []Device
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		devices = append(devices, Device{
			Name: d.deviceName(path),
			Path: path,
		})
	}
	d.logger.Debug("Enumerated V4L2 devices", "count", len(devices))
	return devices, nil
}

func (d *linuxDetector) deviceName(devPath string) string {
	sysName := filepath.Join("/sys/class/video4linux", filepath.Base(devPath), "name")
	data, err := os.ReadFile(sysName)
	if err != nil {
		return devPath
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return devPath
	}
	return name
}
