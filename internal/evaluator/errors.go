package evaluator

import (
	"fmt"

	"github.com/paperclip-run/paperclip-core/internal/loc"
)

// EvalErrorKind enumerates the semantic-evaluation error kinds from
// spec §7's disposition table ("collected; evaluation continues with
// placeholder").
type EvalErrorKind int

const (
	UnknownToken EvalErrorKind = iota
	UnknownComponent
	UnknownSlot
	UnknownVariant
	UnknownTrigger
	CycleImport
	DuplicateAlias
)

// EvalError never aborts evaluation; every EvalError is accumulated
// onto the Result returned by Evaluate and the evaluator proceeds with
// a placeholder in the offending position (spec §4.3 "Failure model").
type EvalError struct {
	Kind    EvalErrorKind
	Name    string
	span    loc.Span
	Message string
}

func (e *EvalError) Span() loc.Span { return e.span }

func (e *EvalError) Code() loc.DiagnosticCode {
	switch e.Kind {
	case UnknownToken:
		return loc.ErrEvalUnknownToken
	case UnknownComponent:
		return loc.ErrEvalUnknownComponent
	case UnknownSlot:
		return loc.ErrEvalUnknownSlot
	case UnknownVariant:
		return loc.ErrEvalUnknownVariant
	case UnknownTrigger:
		return loc.ErrEvalUnknownTrigger
	case DuplicateAlias:
		return loc.ErrEvalDuplicateAlias
	default:
		return loc.ErrEvalCycleImport
	}
}

func (e *EvalError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.kindLabel(), e.Name)
}

func (e *EvalError) kindLabel() string {
	switch e.Kind {
	case UnknownToken:
		return "unknown token"
	case UnknownComponent:
		return "unknown component"
	case UnknownSlot:
		return "unknown slot"
	case UnknownVariant:
		return "unknown variant"
	case UnknownTrigger:
		return "unknown trigger"
	case DuplicateAlias:
		return "duplicate import alias"
	default:
		return "import cycle"
	}
}

func newEvalError(kind EvalErrorKind, name string, span loc.Span) *EvalError {
	return &EvalError{Kind: kind, Name: name, span: span}
}
