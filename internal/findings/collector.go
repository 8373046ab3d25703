package findings

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrAlreadyReported is returned when Report is called more than once.
var ErrAlreadyReported = errors.New("findings already reported")

// Collector is an append-only, ordered log of findings.
// It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	findings []Finding
	reported bool
}

// NewCollector creates an empty Collector in the collecting state.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends findings in order. Adding after Report is a programming error.
func (c *Collector) Add(fs ...Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reported {
		panic("findings: Add called after Report")
	}
	c.findings = append(c.findings, fs...)
}

// Len returns the number of findings collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.findings)
}

// Findings returns a copy of the collected findings.
func (c *Collector) Findings() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// Report writes the banner, the total count and every finding numbered 1..N,
// then moves the collector to its terminal state. It returns the number of findings.
//
//nolint:errcheck // report output errors are not recoverable
func (c *Collector) Report(w io.Writer) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reported {
		return 0, ErrAlreadyReported
	}
	c.reported = true

	fmt.Fprint(w, "\n------ check results ------\n\n")
	fmt.Fprintf(w, "%d errors found checking examples\n\n", len(c.findings))
	for i, f := range c.findings {
		fmt.Fprintf(w, "%d. %s\n", i+1, f)
	}
	return len(c.findings), nil
}

// ExitCode maps a finding count to a process exit status.
// Exit statuses above 255 wrap on POSIX systems, so the count is clamped.
func ExitCode(count int) int {
	if count > 255 {
		return 255
	}
	return count
}
