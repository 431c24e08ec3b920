// Package rtsp describes the network target a capture session publishes to.
package rtsp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Defaults applied when a target field is missing or unparsable.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8554
	DefaultPath = "live.stream"
)

// Target identifies the RTSP endpoint the relay serves and the capture
// process publishes to.
type Target struct {
	Host string
	Port int
	Path string
}

// NewTarget builds a normalized target. Empty host and path fall back to
// defaults, the port string falls back to 8554 when unparsable or out of
// range, and a leading slash is stripped from the path.
func NewTarget(host, port, path string) Target {
	t := Target{
		Host: strings.TrimSpace(host),
		Port: parsePort(port),
		Path: strings.TrimPrefix(strings.TrimSpace(path), "/"),
	}
	if t.Host == "" {
		t.Host = DefaultHost
	}
	if t.Path == "" {
		t.Path = DefaultPath
	}
	return t
}

// Normalize returns a copy of t with defaults applied to missing fields.
func (t Target) Normalize() Target {
	return NewTarget(t.Host, strconv.Itoa(t.Port), t.Path)
}

// URL returns the canonical connection URL.
func (t Target) URL() string {
	return fmt.Sprintf("rtsp://%s:%d/%s", t.Host, t.Port, t.Path)
}

// Addr returns the host:port form used for TCP readiness probing.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func parsePort(s string) int {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return DefaultPort
	}
	return port
}
