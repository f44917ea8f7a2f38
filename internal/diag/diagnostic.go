package diag

import "fmt"

// Diagnostic is one finding produced by a phase failure.
type Diagnostic struct {
	Phase       Phase
	Severity    Severity
	Message     string
	Recoverable bool
	// Attempt is the 1-based pipeline attempt the finding belongs to.
	Attempt int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Phase, d.Message)
}
