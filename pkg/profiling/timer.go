// Package profiling records wall-clock spans of a single hookcfg invocation.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Stopper is an interface for stopping a timed span.
type Stopper interface {
	Stop()
}

// span represents a single timed operation.
type span struct {
	name     string
	start    time.Time
	duration time.Duration
	profiler *Profiler
}

// Stop completes the timing for this span.
func (s *span) Stop() {
	s.profiler.mu.Lock()
	defer s.profiler.mu.Unlock()
	if s.duration == 0 {
		s.duration = time.Since(s.start)
	}
}

// Profiler collects spans. Spans may be started from several goroutines, so
// they are kept flat and ordered by start time rather than nested.
type Profiler struct {
	enabled bool
	mu      sync.Mutex
	start   time.Time
	spans   []*span
}

var defaultProfiler = &Profiler{}

// Enable turns on the global profiler.
func Enable() {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()

	if defaultProfiler.enabled {
		return
	}
	defaultProfiler.enabled = true
	defaultProfiler.start = time.Now()
	defaultProfiler.spans = nil
}

// Enabled reports whether spans are being recorded.
func Enabled() bool {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()
	return defaultProfiler.enabled
}

// Reset disables the profiler and drops recorded spans.
func Reset() {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()
	defaultProfiler.enabled = false
	defaultProfiler.spans = nil
}

// Start begins a new timed span with the given name.
// It returns a Stopper which must be used to end the span, typically via defer.
func Start(name string) Stopper {
	return defaultProfiler.startSpan(name)
}

// Summarize prints every recorded span with its share of the total run time.
func Summarize(w io.Writer) {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()

	if !defaultProfiler.enabled {
		return
	}
	total := time.Since(defaultProfiler.start)

	spans := append([]*span(nil), defaultProfiler.spans...)
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].start.Before(spans[j].start)
	})

	fmt.Fprintln(w, "\n--- Timing Profile ---")
	fmt.Fprintf(w, "total %v\n", total.Round(time.Microsecond*100))
	for _, s := range spans {
		printSpan(w, s, defaultProfiler.start, total)
	}
	fmt.Fprintln(w, "--------------------")
}

func (p *Profiler) startSpan(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return noopStopper{}
	}
	s := &span{name: name, start: time.Now(), profiler: p}
	p.spans = append(p.spans, s)
	return s
}

func printSpan(w io.Writer, s *span, start time.Time, total time.Duration) {
	offset := s.start.Sub(start)
	if s.duration == 0 {
		fmt.Fprintf(w, "  - %s (+%v, unfinished)\n", s.name, offset.Round(time.Microsecond*100))
		return
	}

	percentage := 0.0
	if total > 0 {
		percentage = (float64(s.duration) / float64(total)) * 100
	}
	name := s.name
	if len(name) > 60 {
		name = name[:57] + "..."
	}
	fmt.Fprintf(w, "  - %s (%v, %.1f%%)\n", name, s.duration.Round(time.Microsecond*100), percentage)
}

// noopStopper is used when the profiler is disabled.
type noopStopper struct{}

func (s noopStopper) Stop() {}
