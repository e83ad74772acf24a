package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	default:
		return "unknown"
	}
}

// Kind classifies fatal errors.
type Kind int

const (
	IOError Kind = iota
	LexicalError
	PreprocessorError
	MacroRecursionError
)

func (k Kind) String() string {
	switch k {
	case IOError:
		return "io"
	case LexicalError:
		return "lexical"
	case PreprocessorError:
		return "preprocessor"
	case MacroRecursionError:
		return "macro recursion"
	default:
		return "unknown"
	}
}

// Position locates a diagnostic in a source file. Line and Column are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is a positional message. Fatal diagnostics are returned as
// *Diagnostic values through the error interface.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Pos      Position
	Msg      string
	cause    error
}

// Errorf builds a fatal diagnostic of the given kind.
func Errorf(kind Kind, pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Error, Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Warningf builds a non-fatal diagnostic.
func Warningf(pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Warning, Kind: PreprocessorError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an I/O diagnostic carrying the OS-level cause.
func Wrap(cause error, pos Position, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Kind:     IOError,
		Pos:      pos,
		Msg:      errors.Wrap(cause, msg).Error(),
		cause:    cause,
	}
}

// Error formats the diagnostic as
// "Lexing Error (<file> - line: <L>, column: <C>): <msg>".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("Lexing %s (%s - line: %d, column: %d): %s",
		d.Severity, d.Pos.File, d.Pos.Line, d.Pos.Column, d.Msg)
}

// Unwrap returns the underlying cause of an I/O diagnostic.
func (d *Diagnostic) Unwrap() error { return d.cause }

// Fatal reports whether the diagnostic terminates tokenization.
func (d *Diagnostic) Fatal() bool { return d.Severity == Error }

// As extracts a *Diagnostic from err.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
