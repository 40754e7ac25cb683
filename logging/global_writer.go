package logging

import (
	"io"
	"os"
	"sync"
)

// stderrSink is where structured logs go when they reach the terminal.
// Tests point it at a buffer.
type stderrSink struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *stderrSink) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

var sink = &stderrSink{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every logger.
func SetGlobalOutput(w io.Writer) {
	sink.mu.Lock()
	sink.w = w
	sink.mu.Unlock()
}

// GetGlobalOutput returns the shared stderr sink.
func GetGlobalOutput() io.Writer {
	return sink
}
