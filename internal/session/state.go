package session

// State is the sole externally observable session status.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateStopping
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:     "idle",
	StateStarting: "starting",
	StateActive:   "active",
	StateStopping: "stopping",
	StateFailed:   "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
