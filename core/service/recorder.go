// Package service provides the filter, flatten and dashboard logic for Terminus.
package service

import (
	"fmt"
	"log"
	"sync"
)

// Recorder tees log lines to the process logger and a bounded in-memory
// buffer. It is created per request so the debug endpoints can return the
// lines emitted while replaying queries, without any process-wide capture.
type Recorder struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewRecorder creates a recorder holding at most max lines. The oldest
// lines are dropped once the buffer is full.
func NewRecorder(max int) *Recorder {
	if max <= 0 {
		max = 200
	}
	return &Recorder{max: max}
}

// Logf records a formatted line and forwards it to the process logger.
func (r *Recorder) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	log.Print(line)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) >= r.max {
		r.lines = r.lines[1:]
	}
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the captured lines in order of emission.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
