//go:build linux

package ffmpeg

// inputArgs builds the V4L2 input clause. device is a device node path
// such as /dev/video0.
func inputArgs(device string) []string {
	return []string{
		"-f", "v4l2",
		"-rtbufsize", "100M",
		"-thread_queue_size", "512",
		"-i", device,
	}
}

func listDevicesArgs() []string {
	return []string{"-f", "v4l2", "-list_formats", "all", "-i", "/dev/video0"}
}
