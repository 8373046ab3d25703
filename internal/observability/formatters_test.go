package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saturncloud/examples/internal/findings"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(RunSummary{
		RunID:        "run-1",
		Directories:  12,
		SchemaSource: "https://example.com/schema.json",
		Findings: []findings.Finding{
			findings.New(findings.KindStructural, "examples/a", "a1"),
			findings.New(findings.KindStructural, "examples/a", "a2"),
			findings.New(findings.KindBusiness, "examples/b", "b1"),
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Examples Check Summary")
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "Directories:  12")
	assert.Contains(t, output, "Findings:     3")
	assert.Contains(t, output, "structural   2")
	assert.Contains(t, output, "examples/a (2)")

	// structural is listed before business
	assert.Less(t, strings.Index(output, "structural"), strings.Index(output, "business"))
}

func TestPrintRunSummary_NoSchemaNoFindings(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(RunSummary{RunID: "run-2"})
	output := buf.String()

	assert.Contains(t, output, "(unavailable)")
	assert.NotContains(t, output, "By kind")
}

func TestPrintRunSummary_LimitsSubjects(t *testing.T) {
	var fs []findings.Finding
	for i := 0; i < maxItemsToShow+3; i++ {
		fs = append(fs, findings.New(findings.KindContent, fmt.Sprintf("nb-%d.ipynb", i), "dirty"))
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(RunSummary{RunID: "run-3", Findings: fs})

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("Title", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
