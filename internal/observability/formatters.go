// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/saturncloud/examples/internal/findings"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// RunSummary is what PrintRunSummary reports about a finished run.
type RunSummary struct {
	RunID        string
	Directories  int
	SchemaSource string // empty when no schema was loaded
	Findings     []findings.Finding
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs finding counts per kind and the most affected subjects.
func (p *Printer) PrintRunSummary(s RunSummary) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:          %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Directories:  %d\n", s.Directories))
	schema := s.SchemaSource
	if schema == "" {
		schema = "(unavailable)"
	}
	sb.WriteString(fmt.Sprintf("Schema:       %s\n", schema))
	sb.WriteString(fmt.Sprintf("Findings:     %d\n", len(s.Findings)))

	if len(s.Findings) > 0 {
		sb.WriteString("\nBy kind:\n")
		for _, kc := range countByKind(s.Findings) {
			sb.WriteString(fmt.Sprintf("  • %-12s %d\n", kc.kind, kc.count))
		}

		subjects := countBySubject(s.Findings)
		sb.WriteString("\nMost affected:\n")
		count := min(len(subjects), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", subjects[i].subject, subjects[i].count))
		}
		if len(subjects) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(subjects)-maxItemsToShow))
		}
	}

	p.printBox("Examples Check Summary", sb.String())
}

type kindCount struct {
	kind  findings.Kind
	count int
}

// countByKind returns the kinds present, most frequent first, ties by name.
func countByKind(fs []findings.Finding) []kindCount {
	counts := make(map[findings.Kind]int)
	for _, f := range fs {
		counts[f.Kind]++
	}
	out := make([]kindCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, kindCount{kind: k, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].kind < out[j].kind
	})
	return out
}

type subjectCount struct {
	subject string
	count   int
}

// countBySubject returns finding subjects, most findings first, ties by name.
func countBySubject(fs []findings.Finding) []subjectCount {
	counts := make(map[string]int)
	for _, f := range fs {
		counts[f.Subject]++
	}
	out := make([]subjectCount, 0, len(counts))
	for subj, n := range counts {
		out = append(out, subjectCount{subject: subj, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].subject < out[j].subject
	})
	return out
}
