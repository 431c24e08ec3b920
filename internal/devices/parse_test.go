package devices

import (
	"reflect"
	"testing"
)

const modernListing = `[dshow @ 000001f2] DirectShow video and audio devices
[dshow @ 000001f2] "Integrated Camera" (video)
[dshow @ 000001f2]   Alternative name "@device_pnp_\\?\usb#vid_04f2"
[dshow @ 000001f2] "OBS Virtual Camera" (video)
[dshow @ 000001f2]   Alternative name "@device_sw_{860BB310}"
[dshow @ 000001f2] "Microphone Array" (audio)
[dshow @ 000001f2]   Alternative name "@device_cm_{33D9A762}"
dummy: Immediate exit requested`

const legacyListing = `[dshow @ 000001f2] DirectShow video devices (some may be both video and audio devices)
[dshow @ 000001f2]  "Integrated Camera"
[dshow @ 000001f2]     Alternative name "@device_pnp_\\?\usb#vid_04f2"
[dshow @ 000001f2]  "USB Capture HDMI"
[dshow @ 000001f2] DirectShow audio devices
[dshow @ 000001f2]  "Microphone Array"
dummy: Immediate exit requested`

func TestParseDShowDevicesModern(t *testing.T) {
	got := ParseDShowDevices(modernListing)
	want := []string{"Integrated Camera", "OBS Virtual Camera"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDShowDevicesLegacySections(t *testing.T) {
	got := ParseDShowDevices(legacyListing)
	want := []string{"Integrated Camera", "USB Capture HDMI"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDShowDevicesDeduplicates(t *testing.T) {
	listing := `"Integrated Camera" (video)
"Integrated Camera" (video)`
	got := ParseDShowDevices(listing)
	if len(got) != 1 {
		t.Errorf("expected deduplicated listing, got %v", got)
	}
}

func TestParseDShowDevicesEmpty(t *testing.T) {
	if got := ParseDShowDevices("dummy: Immediate exit requested"); len(got) != 0 {
		t.Errorf("expected no devices, got %v", got)
	}
}

func TestDeviceInput(t *testing.T) {
	d := Device{Name: "Integrated Camera", Path: "/dev/video0"}
	if d.Input() != "/dev/video0" {
		t.Errorf("expected path preferred, got %q", d.Input())
	}
	d.Path = ""
	if d.Input() != "Integrated Camera" {
		t.Errorf("expected name fallback, got %q", d.Input())
	}
}
