//go:build windows

package ffmpeg

// inputArgs builds the DirectShow input clause. The device name goes into
// the argv element unquoted; the OS passes it through as a single argument.
func inputArgs(device string) []string {
	return []string{
		"-f", "dshow",
		"-rtbufsize", "100M",
		"-thread_queue_size", "512",
		"-i", "video=" + device,
	}
}

func listDevicesArgs() []string {
	return []string{"-f", "dshow", "-list_devices", "true", "-i", "dummy"}
}
