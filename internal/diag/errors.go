package diag

import (
	"errors"
	"fmt"
)

// Error is the typed failure returned by every phase.
// Recoverable errors are eligible for the regeneration retry loop;
// fatal ones abort the pipeline immediately.
type Error struct {
	Phase       Phase
	Recoverable bool
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error into its reportable record.
func (e *Error) Diagnostic(attempt int) Diagnostic {
	return Diagnostic{
		Phase:       e.Phase,
		Severity:    SevError,
		Message:     e.Err.Error(),
		Recoverable: e.Recoverable,
		Attempt:     attempt,
	}
}

// Lexicalf reports a recoverable lexical error.
func Lexicalf(format string, args ...any) *Error {
	return &Error{Phase: PhaseLexical, Recoverable: true, Err: fmt.Errorf(format, args...)}
}

// Syntaxf reports a recoverable syntax error.
func Syntaxf(format string, args ...any) *Error {
	return &Error{Phase: PhaseSyntax, Recoverable: true, Err: fmt.Errorf(format, args...)}
}

// Semanticf reports a recoverable semantic error.
func Semanticf(format string, args ...any) *Error {
	return &Error{Phase: PhaseSemantic, Recoverable: true, Err: fmt.Errorf(format, args...)}
}

// Internalf reports a fatal invariant violation inside the optimizer or the
// artifact plumbing. Never retried: повтор не чинит баги.
func Internalf(format string, args ...any) *Error {
	return &Error{Phase: PhaseOptimize, Recoverable: false, Err: fmt.Errorf(format, args...)}
}

// Executionf reports a fatal environment or toolchain fault.
func Executionf(format string, args ...any) *Error {
	return &Error{Phase: PhaseExecute, Recoverable: false, Err: fmt.Errorf(format, args...)}
}

// BackendUnavailablef reports a recoverable generative-backend fault.
func BackendUnavailablef(format string, args ...any) *Error {
	return &Error{Phase: PhaseBackend, Recoverable: true, Err: fmt.Errorf(format, args...)}
}

// AsError coerces err into *Error, wrapping unknown errors as fatal faults
// attributed to the given phase.
func AsError(err error, phase Phase) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Phase: phase, Recoverable: false, Err: err}
}
