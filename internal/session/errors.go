package session

import (
	"fmt"
	"time"
)

// ReadinessError reports that the relay endpoint never accepted a TCP
// connection within the readiness window. RelayTail carries the relay's
// recent output so the caller can see why the listener never came up.
type ReadinessError struct {
	Addr      string
	Timeout   time.Duration
	RelayTail []string
}

func (e *ReadinessError) Error() string {
	return fmt.Sprintf("relay endpoint %s not ready after %s", e.Addr, e.Timeout)
}
