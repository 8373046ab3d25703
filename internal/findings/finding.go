// Package findings holds validation findings and the collector that reports them.
package findings

import "fmt"

// Kind classifies a finding so operators can triage content problems
// separately from infrastructure problems.
type Kind string

const (
	// KindStructural covers naming and required-file violations.
	KindStructural Kind = "structural"
	// KindSchema covers recipe documents that fail the JSON Schema.
	KindSchema Kind = "schema"
	// KindBusiness covers recipe rules the schema cannot express.
	KindBusiness Kind = "business"
	// KindContent covers notebook lint and execution-state problems.
	KindContent Kind = "content"
	// KindManifest covers templates manifest problems.
	KindManifest Kind = "manifest"
	// KindExternal covers an unreachable registry or schema source.
	KindExternal Kind = "external"
)

// Finding is a single reported validation failure.
type Finding struct {
	Kind    Kind
	Subject string // path or entity the finding is about
	Message string
}

// New creates a Finding.
func New(kind Kind, subject, message string) Finding {
	return Finding{Kind: kind, Subject: subject, Message: message}
}

// Newf creates a Finding with a formatted message.
func Newf(kind Kind, subject, format string, args ...any) Finding {
	return Finding{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}
