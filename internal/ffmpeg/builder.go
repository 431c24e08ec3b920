package ffmpeg

import "errors"

// ErrNoDevice is returned when capture parameters name no camera.
var ErrNoDevice = errors.New("no capture device selected")

// BuildCaptureArgs builds the full capture command for one camera: platform
// input demuxer, bounded input buffering, low-latency x264 encode, RTSP
// push over TCP. The flag ordering is load-bearing; input options must
// precede -i and codec options must precede the output URL.
func BuildCaptureArgs(binary string, p Params) ([]string, error) {
	p = p.Normalize()
	if p.Device == "" {
		return nil, ErrNoDevice
	}

	args := []string{binary}
	args = append(args, inputArgs(p.Device)...)
	args = append(args,
		"-r", p.FPS,
		"-video_size", p.Resolution,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-tune", "zerolatency",
		"-x264-params", "keyint=15:min-keyint=15:scenecut=-1",
		"-fflags", "nobuffer",
		"-flags", "low_delay",
		"-max_delay", "0",
		"-flush_packets", "1",
		"-f", "rtsp",
		"-rtsp_transport", "tcp",
		p.OutputURL,
	)
	return args, nil
}

// BuildListDevicesArgs builds the device enumeration command. FFmpeg prints
// the device listing to stderr and exits nonzero; callers must tolerate
// both.
func BuildListDevicesArgs(binary string) []string {
	return append([]string{binary, "-hide_banner"}, listDevicesArgs()...)
}
