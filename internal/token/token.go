// Package token implements the Paperclip tokenizer: a hand-written
// scanner over UTF-8 source bytes producing a stream of (Kind, Span)
// pairs, per spec §4.1. It performs no parsing and holds no AST
// knowledge.
package token

import (
	"fmt"

	"github.com/paperclip-run/paperclip-core/internal/loc"
)

// Kind enumerates the token kinds recognized by the scanner.
type Kind int

const (
	Identifier Kind = iota
	Keyword
	String
	Number
	HexColor
	Dimension
	Punct
	DocComment
	LineComment
	Whitespace
	Eof
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "Identifier"
	case Keyword:
		return "Keyword"
	case String:
		return "String"
	case Number:
		return "Number"
	case HexColor:
		return "HexColor"
	case Dimension:
		return "Dimension"
	case Punct:
		return "Punct"
	case DocComment:
		return "DocComment"
	case LineComment:
		return "LineComment"
	case Whitespace:
		return "Whitespace"
	case Eof:
		return "Eof"
	default:
		return "Invalid"
	}
}

// Keywords is the fixed set of reserved identifiers recognized by the
// parser (spec §4.1).
var Keywords = map[string]bool{
	"public": true, "component": true, "render": true, "style": true,
	"variant": true, "trigger": true, "slot": true, "token": true,
	"import": true, "as": true, "repeat": true, "in": true, "if": true,
	"else": true, "text": true, "insert": true,
}

// DimensionUnits is the closed set of recognized dimension suffixes
// (spec §4.1).
var DimensionUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "%": true, "vw": true,
	"vh": true, "s": true, "ms": true, "deg": true,
}

// Token is a single scanned lexeme.
type Token struct {
	Kind Kind
	Text string
	Span loc.Span
}

// LexError is the error kind produced by malformed lexical input
// (unterminated strings, invalid hex colors) per spec §7.
type LexError struct {
	Message string
	span    loc.Span
	code    loc.DiagnosticCode
}

func (e *LexError) Error() string             { return e.Message }
func (e *LexError) Span() loc.Span            { return e.span }
func (e *LexError) Code() loc.DiagnosticCode  { return e.code }
func (e *LexError) Unwrap() error             { return nil }

func newLexError(code loc.DiagnosticCode, span loc.Span, format string, args ...interface{}) *LexError {
	return &LexError{Message: fmt.Sprintf(format, args...), span: span, code: code}
}

// Tokenizer scans a fixed source buffer, maintaining a single cursor.
// It never mutates its input and holds no reference to any AST type.
type Tokenizer struct {
	file   string
	src    string
	pos    int
	errors []*LexError
}

// New creates a Tokenizer over src, tagging every span with file (used
// only for diagnostic rendering).
func New(file, src string) *Tokenizer {
	return &Tokenizer{file: file, src: src}
}

// Errors returns every LexError accumulated so far.
func (t *Tokenizer) Errors() []*LexError { return t.errors }

func (t *Tokenizer) span(start int) loc.Span {
	return loc.Span{Start: start, End: t.pos, File: t.file}
}

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.src) {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) peekAt(off int) byte {
	i := t.pos + off
	if i >= len(t.src) {
		return 0
	}
	return t.src[i]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

const punctChars = "{}(),:;+-*/.="

func isPunct(c byte) bool {
	for i := 0; i < len(punctChars); i++ {
		if punctChars[i] == c {
			return true
		}
	}
	return false
}

// Next scans and returns the next token. Once the end of input is
// reached, it returns a terminal Eof token on every subsequent call.
func (t *Tokenizer) Next() Token {
	start := t.pos
	if t.pos >= len(t.src) {
		return Token{Kind: Eof, Span: t.span(start)}
	}
	c := t.peek()

	switch {
	case isWhitespace(c):
		for t.pos < len(t.src) && isWhitespace(t.peek()) {
			t.pos++
		}
		return Token{Kind: Whitespace, Text: t.src[start:t.pos], Span: t.span(start)}

	case c == '/' && t.peekAt(1) == '*':
		return t.scanBlockComment(start)

	case c == '/' && t.peekAt(1) == '/':
		for t.pos < len(t.src) && t.peek() != '\n' {
			t.pos++
		}
		return Token{Kind: LineComment, Text: t.src[start:t.pos], Span: t.span(start)}

	case c == '"':
		return t.scanString(start)

	case c == '#':
		return t.scanHexColor(start)

	case isDigit(c):
		return t.scanNumberOrDimension(start)

	case isIdentStart(c):
		return t.scanIdentifierOrKeyword(start)

	case isPunct(c):
		t.pos++
		return Token{Kind: Punct, Text: t.src[start:t.pos], Span: t.span(start)}

	default:
		// Unknown byte: emit it as a one-byte punct-like token so the
		// parser can report a precise UnexpectedToken rather than the
		// tokenizer silently dropping input.
		t.pos++
		return Token{Kind: Punct, Text: t.src[start:t.pos], Span: t.span(start)}
	}
}

func (t *Tokenizer) scanBlockComment(start int) Token {
	isDoc := t.peekAt(2) == '*'
	t.pos += 2
	for t.pos < len(t.src) {
		if t.peek() == '*' && t.peekAt(1) == '/' {
			t.pos += 2
			kind := LineComment
			if isDoc {
				kind = DocComment
			}
			return Token{Kind: kind, Text: t.src[start:t.pos], Span: t.span(start)}
		}
		t.pos++
	}
	// unterminated block comment: treat as a (non-doc) comment to end of file
	return Token{Kind: LineComment, Text: t.src[start:t.pos], Span: t.span(start)}
}

func (t *Tokenizer) scanString(start int) Token {
	t.pos++ // consume opening quote
	for t.pos < len(t.src) {
		c := t.peek()
		if c == '\\' && t.pos+1 < len(t.src) {
			t.pos += 2
			continue
		}
		if c == '"' {
			t.pos++
			return Token{Kind: String, Text: t.src[start:t.pos], Span: t.span(start)}
		}
		if c == '\n' {
			break
		}
		t.pos++
	}
	sp := t.span(start)
	t.errors = append(t.errors, newLexError(loc.ErrLexUnterminatedString, sp, "unterminated string literal"))
	return Token{Kind: String, Text: t.src[start:t.pos], Span: sp}
}

func (t *Tokenizer) scanHexColor(start int) Token {
	t.pos++ // consume '#'
	digitsStart := t.pos
	for t.pos < len(t.src) && isHex(t.peek()) {
		t.pos++
	}
	n := t.pos - digitsStart
	sp := t.span(start)
	if n != 3 && n != 4 && n != 6 && n != 8 {
		t.errors = append(t.errors, newLexError(loc.ErrLexInvalidHexColor, sp,
			"invalid hex color: expected 3, 4, 6, or 8 hex digits, found %d", n))
	}
	return Token{Kind: HexColor, Text: t.src[start:t.pos], Span: sp}
}

func (t *Tokenizer) scanNumberOrDimension(start int) Token {
	for t.pos < len(t.src) && isDigit(t.peek()) {
		t.pos++
	}
	if t.peek() == '.' && isDigit(t.peekAt(1)) {
		t.pos++
		for t.pos < len(t.src) && isDigit(t.peek()) {
			t.pos++
		}
	}
	numEnd := t.pos
	unitStart := t.pos
	for t.pos < len(t.src) && (isIdentStart(t.peek()) || t.peek() == '%') {
		t.pos++
	}
	unit := t.src[unitStart:t.pos]
	if unit != "" {
		if !DimensionUnits[unit] {
			t.pos = numEnd // not a recognized unit, back off and treat as bare Number
			return Token{Kind: Number, Text: t.src[start:t.pos], Span: t.span(start)}
		}
		return Token{Kind: Dimension, Text: t.src[start:t.pos], Span: t.span(start)}
	}
	return Token{Kind: Number, Text: t.src[start:t.pos], Span: t.span(start)}
}

func (t *Tokenizer) scanIdentifierOrKeyword(start int) Token {
	for t.pos < len(t.src) && isIdentCont(t.peek()) {
		t.pos++
	}
	text := t.src[start:t.pos]
	if Keywords[text] {
		return Token{Kind: Keyword, Text: text, Span: t.span(start)}
	}
	return Token{Kind: Identifier, Text: text, Span: t.span(start)}
}

// Tokenize scans the entire source and returns every token including a
// terminal Eof, per spec §4.1.
func Tokenize(file, src string) ([]Token, []*LexError) {
	tz := New(file, src)
	var tokens []Token
	for {
		tok := tz.Next()
		tokens = append(tokens, tok)
		if tok.Kind == Eof {
			break
		}
	}
	return tokens, tz.Errors()
}
