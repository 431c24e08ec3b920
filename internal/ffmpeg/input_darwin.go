//go:build darwin

package ffmpeg

// inputArgs builds the AVFoundation input clause. device is the camera
// name or index as reported by -list_devices.
func inputArgs(device string) []string {
	return []string{
		"-f", "avfoundation",
		"-rtbufsize", "100M",
		"-thread_queue_size", "512",
		"-i", device,
	}
}

func listDevicesArgs() []string {
	return []string{"-f", "avfoundation", "-list_devices", "true", "-i", ""}
}
