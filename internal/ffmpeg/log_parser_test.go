package ffmpeg

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "simple level prefix",
			line:      "[error] Cannot open device",
			wantLevel: "error",
			wantMsg:   "Cannot open device",
		},
		{
			name:      "warning prefix",
			line:      "[warning] deprecated pixel format used",
			wantLevel: "warning",
			wantMsg:   "deprecated pixel format used",
		},
		{
			name:      "component prefix keeps component",
			line:      "[libx264 @ 0x5591] [info] frame I:1 Avg QP:20.00",
			wantLevel: "info",
			wantMsg:   "[libx264 @ 0x5591] frame I:1 Avg QP:20.00",
		},
		{
			name:      "component with error level",
			line:      "[dshow @ 0x1a2b] [error] Could not find video device",
			wantLevel: "error",
			wantMsg:   "[dshow @ 0x1a2b] Could not find video device",
		},
		{
			name:      "no bracket defaults to info",
			line:      "frame=  120 fps= 30 q=23.0",
			wantLevel: "info",
			wantMsg:   "frame=  120 fps= 30 q=23.0",
		},
		{
			name:      "non-level bracket passes through",
			line:      "[rtsp @ 0x9f] setting jitter buffer size",
			wantLevel: "info",
			wantMsg:   "[rtsp @ 0x9f] setting jitter buffer size",
		},
		{
			name:      "empty line",
			line:      "",
			wantLevel: "info",
			wantMsg:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, msg := ParseLogLevel(tt.line)
			if level != tt.wantLevel {
				t.Errorf("level: got %q, want %q", level, tt.wantLevel)
			}
			if msg != tt.wantMsg {
				t.Errorf("msg: got %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
