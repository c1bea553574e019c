package parser

import (
	"fmt"

	"github.com/paperclip-run/paperclip-core/internal/loc"
)

// SyntaxError covers UnexpectedToken, UnexpectedEof, and InvalidSyntax
// from spec §4.2's error-kind table. Kind discriminates which shape the
// caller is looking at without needing three separate Go types.
type SyntaxError struct {
	Kind     SyntaxErrorKind
	Expected string
	Found    string
	Message  string
	span     loc.Span
}

type SyntaxErrorKind int

const (
	UnexpectedToken SyntaxErrorKind = iota
	UnexpectedEOF
	InvalidSyntax
)

func (e *SyntaxError) Span() loc.Span { return e.span }

func (e *SyntaxError) Code() loc.DiagnosticCode {
	switch e.Kind {
	case UnexpectedToken:
		return loc.ErrSyntaxUnexpectedToken
	case UnexpectedEOF:
		return loc.ErrSyntaxUnexpectedEOF
	default:
		return loc.ErrSyntaxInvalid
	}
}

func (e *SyntaxError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token: expected %s, found %s", e.Expected, e.Found)
	case UnexpectedEOF:
		return fmt.Sprintf("unexpected end of file: expected %s", e.Expected)
	default:
		return e.Message
	}
}

func errUnexpectedToken(span loc.Span, expected, found string) *SyntaxError {
	return &SyntaxError{Kind: UnexpectedToken, Expected: expected, Found: found, span: span}
}

func errUnexpectedEOF(span loc.Span, expected string) *SyntaxError {
	return &SyntaxError{Kind: UnexpectedEOF, Expected: expected, span: span}
}

func errInvalidSyntax(span loc.Span, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Kind: InvalidSyntax, Message: fmt.Sprintf(format, args...), span: span}
}

// ParseErrors is the accumulated result of a parse. Result<Document,
// ParseErrors> from spec §4.2 is expressed as (doc, ParseErrors) with
// ParseErrors possibly empty rather than a Result type, which is more
// idiomatic for a Go AST consumer that often still wants the partial
// document for editor tooling.
type ParseErrors []*SyntaxError

func (p ParseErrors) Error() string {
	if len(p) == 0 {
		return "no parse errors"
	}
	if len(p) == 1 {
		return p[0].Error()
	}
	return fmt.Sprintf("%d parse errors (first: %s)", len(p), p[0].Error())
}
