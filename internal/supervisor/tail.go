package supervisor

import "sync"

// DefaultTailCapacity is how many recent output lines a handle retains.
const DefaultTailCapacity = 80

// Tail is a bounded, insertion-ordered buffer of the most recent output
// lines from a process. The drain goroutine appends; the control path reads
// snapshots for diagnostics. Capacity bounds memory regardless of how long
// the process runs.
type Tail struct {
	mu    sync.Mutex
	lines []string
	head  int
	count int
}

// NewTail creates a tail buffer holding at most capacity lines.
func NewTail(capacity int) *Tail {
	if capacity <= 0 {
		capacity = DefaultTailCapacity
	}
	return &Tail{lines: make([]string, capacity)}
}

// Append adds a line, evicting the oldest when full.
func (t *Tail) Append(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines[t.head] = line
	t.head = (t.head + 1) % len(t.lines)
	if t.count < len(t.lines) {
		t.count++
	}
}

// Last returns a snapshot of up to n most recent lines, oldest first.
// n <= 0 returns everything retained.
func (t *Tail) Last(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == 0 {
		return nil
	}
	if n <= 0 || n > t.count {
		n = t.count
	}

	result := make([]string, n)
	// Oldest retained line sits at head when the buffer has wrapped.
	start := t.head - n
	if t.count < len(t.lines) {
		start = t.count - n
	}
	for i := 0; i < n; i++ {
		result[i] = t.lines[((start+i)%len(t.lines)+len(t.lines))%len(t.lines)]
	}
	return result
}

// Len returns the number of retained lines.
func (t *Tail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
