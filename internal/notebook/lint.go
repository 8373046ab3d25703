package notebook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/saturncloud/examples/internal/findings"
)

var (
	warningFilterPattern    = regexp.MustCompile(`warnings\.(simple)?filter`)
	delayedDecoratorPattern = regexp.MustCompile(`@delayed\b`)
)

// Check modes.
const (
	ModeFull     = "full"
	ModeLintOnly = "lint-only"
)

// Lint inspects the source of one code cell and returns a message per problem.
func Lint(source []string) []string {
	code := strings.Join(source, "")

	var problems []string
	if warningFilterPattern.MatchString(code) {
		problems = append(problems,
			"Found use of warnings.simplefilter() or warnings.filterwarnings(). "+
				"Do not filter out warnings in example notebooks. Try to fix them or "+
				"add text explaining why they can be safely ignored.")
	}
	if delayedDecoratorPattern.MatchString(code) {
		problems = append(problems,
			"Found a use of '@delayed'. Instead, 'import dask' and then use '@dask.delayed'.")
	}
	return problems
}

// Check lints every code cell of nb and, in full mode, reports cells that
// still carry outputs or execution counts.
func Check(path string, nb *Notebook, mode string) []findings.Finding {
	var out []findings.Finding
	dirty := 0
	for _, cell := range nb.Cells {
		if cell.Dirty() {
			dirty++
		}
		if !cell.IsCode() {
			continue
		}
		for _, problem := range Lint(cell.Source) {
			out = append(out, findings.New(findings.KindContent, path, fmt.Sprintf("%s (in '%s')", problem, path)))
		}
	}
	if mode != ModeLintOnly && dirty > 0 {
		out = append(out, findings.Newf(findings.KindContent, path,
			"Found %d non-empty cells in '%s'. Clear all outputs and re-commit this file.", dirty, path))
	}
	return out
}

// CheckFile loads and checks a notebook. An unreadable notebook is a finding.
func CheckFile(path, mode string) []findings.Finding {
	nb, err := Load(path)
	if err != nil {
		return []findings.Finding{findings.Newf(findings.KindContent, path,
			"Could not read notebook '%s': %v", path, err)}
	}
	return Check(path, nb, mode)
}
