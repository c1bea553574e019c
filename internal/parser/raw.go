package parser

import "github.com/paperclip-run/paperclip-core/internal/token"

// readBalancedBraces assumes the current token is '{' and returns the
// raw source text strictly between it and its matching '}', honoring
// nesting. Used for opaque payloads (script bodies and `{expr}` text)
// that are carried through uninterpreted
// rather than parsed as Paperclip syntax (spec §4.3).
func (p *parser) readBalancedBraces() (string, bool) {
	openTok, ok := p.expectPunct("{")
	if !ok {
		return "", false
	}
	depth := 1
	contentStart := openTok.Span.End
	for !p.atEOF() {
		t := p.peek()
		if t.Kind == token.Punct && t.Text == "{" {
			depth++
		} else if t.Kind == token.Punct && t.Text == "}" {
			depth--
			if depth == 0 {
				contentEnd := t.Span.Start
				p.advance()
				return p.src[contentStart:contentEnd], true
			}
		}
		p.advance()
	}
	p.reportUnexpected("}")
	return p.src[contentStart:], false
}

// readBalancedParens is the '(' ')' counterpart of readBalancedBraces,
// used for conditional expressions: `if (expr) { ... }`.
func (p *parser) readBalancedParens() (string, bool) {
	openTok, ok := p.expectPunct("(")
	if !ok {
		return "", false
	}
	depth := 1
	contentStart := openTok.Span.End
	for !p.atEOF() {
		t := p.peek()
		if t.Kind == token.Punct && t.Text == "(" {
			depth++
		} else if t.Kind == token.Punct && t.Text == ")" {
			depth--
			if depth == 0 {
				contentEnd := t.Span.Start
				p.advance()
				return p.src[contentStart:contentEnd], true
			}
		}
		p.advance()
	}
	p.reportUnexpected(")")
	return p.src[contentStart:], false
}
