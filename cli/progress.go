package cli

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// ProgressReporter reports the progress of concurrent operations, one line
// per status change.
type ProgressReporter struct {
	mu       sync.Mutex
	out      io.Writer
	statuses map[string]string
	start    time.Time
}

// NewProgressReporter creates a new progress reporter writing to out
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{
		out:      out,
		statuses: make(map[string]string),
		start:    time.Now(),
	}
}

// Update records the status of an item and prints it if it changed
func (p *ProgressReporter) Update(item, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.statuses[item] == status {
		return
	}
	p.statuses[item] = status
	fmt.Fprintf(p.out, "%s %s: %s\n", symbol(status), item, status)
}

// Counts returns how many items are in each status.
func (p *ProgressReporter) Counts() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	counts := make(map[string]int)
	for _, status := range p.statuses {
		counts[status]++
	}
	return counts
}

// Done prints a summary of the final statuses
func (p *ProgressReporter) Done() {
	counts := p.Counts()

	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Fprintf(p.out, "\nCompleted in %s:", elapsed)
	for _, status := range statuses {
		fmt.Fprintf(p.out, " %d %s", counts[status], status)
	}
	fmt.Fprintln(p.out)
}

func symbol(status string) string {
	switch status {
	case "completed":
		return "[*]"
	case "failed":
		return "[x]"
	case "fetching":
		return "[~]"
	}
	return "[.]"
}
