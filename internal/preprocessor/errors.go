package preprocessor

import (
	"fmt"

	"github.com/PedroManse/stt-sub000/internal/span"
)

// ProcCommand names the pragma command that opened a still-open section,
// used only to render CantElseCurrentSectionError.
type ProcCommand int

const (
	ProcDef ProcCommand = iota
	ProcIf
	ProcElse
)

func (p ProcCommand) String() string {
	switch p {
	case ProcDef:
		return "def"
	case ProcIf:
		return "if"
	case ProcElse:
		return "else"
	}
	return "unknown"
}

// NoSectionToCloseError reports a "pragma end" with no open section.
type NoSectionToCloseError struct {
	Span span.LineRange
}

func (e *NoSectionToCloseError) Error() string {
	return fmt.Sprintf("no pragma section to (end), on span %s", e.Span)
}

// CantElseCurrentSectionError reports a "pragma else" with no open section,
// or one already flipped by a prior else.
type CantElseCurrentSectionError struct {
	Span    span.LineRange
	Current *ProcCommand // nil when no section is open at all
}

func (e *CantElseCurrentSectionError) Error() string {
	if e.Current == nil {
		return fmt.Sprintf("can't start pragma (else) section, no section is open (span %s)", e.Span)
	}
	return fmt.Sprintf("can't start pragma (else) section on %s (span %s)", e.Current, e.Span)
}

// InvalidPragmaError reports a pragma command other than def/if/else/end.
type InvalidPragmaError struct {
	Command string
}

func (e *InvalidPragmaError) Error() string {
	return fmt.Sprintf("invalid pragma command: %s", e.Command)
}

// CantReadFileError reports a failed include resolution.
type CantReadFileError struct {
	Path string
	Err  error
}

func (e *CantReadFileError) Error() string {
	return fmt.Sprintf("can't read file %q: %v", e.Path, e.Err)
}

func (e *CantReadFileError) Unwrap() error { return e.Err }

// IncludeCycleError reports a file transitively including itself.
type IncludeCycleError struct {
	Path string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle detected at %q", e.Path)
}
