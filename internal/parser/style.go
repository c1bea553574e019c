package parser

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
	"github.com/paperclip-run/paperclip-core/internal/token"
)

// parseTrigger parses `trigger name { "selector" ... }` (spec §3, §8
// scenario 2).
func (p *parser) parseTrigger(public bool) {
	start := p.peek().Span
	p.advance() // 'trigger'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recover()
		return
	}
	if _, ok := p.expectPunct("{"); !ok {
		p.recover()
		return
	}
	var selectors []string
	for !p.atEOF() && !p.isPunct("}") {
		strTok, ok := p.expectString()
		if !ok {
			p.recover()
			return
		}
		selectors = append(selectors, unquote(strTok.Text))
	}
	p.expectPunct("}")
	p.doc.Triggers = append(p.doc.Triggers, ast.Trigger{
		Public: public, Name: nameTok.Text, Selectors: selectors,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	})
}

// parseStyleDeclTop parses a document-level `style name [extends a, b] { ... }`
// mixin declaration (spec §3).
func (p *parser) parseStyleDeclTop(public bool) {
	start := p.peek().Span
	p.advance() // 'style'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recover()
		return
	}
	var extends []string
	if p.isIdentifierText("extends") {
		p.advance()
		for {
			idTok, ok := p.expectIdentifier()
			if !ok {
				p.recover()
				return
			}
			extends = append(extends, idTok.Text)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	props, ok := p.parsePropertyBlock()
	if !ok {
		return
	}
	p.doc.StyleDecls = append(p.doc.StyleDecls, ast.StyleDecl{
		Public: public, Name: nameTok.Text, Extends: extends, Properties: props,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	})
}

// isIdentifierText reports whether the current token is a plain
// (non-keyword) identifier with the given text. "extends" is not a
// reserved word: it only has meaning directly after a style name.
func (p *parser) isIdentifierText(text string) bool {
	t := p.peek()
	return t.Kind == token.Identifier && t.Text == text
}

// parsePropertyBlock parses `{ key: value ... }`, where each value runs
// to the next ';', newline, or the closing brace (spec §4.2).
func (p *parser) parsePropertyBlock() ([]ast.Property, bool) {
	if _, ok := p.expectPunct("{"); !ok {
		p.recover()
		return nil, false
	}
	var props []ast.Property
	for !p.atEOF() && !p.isPunct("}") {
		keyTok, ok := p.expectIdentifier()
		if !ok {
			p.recover()
			return nil, false
		}
		if _, ok := p.expectPunct(":"); !ok {
			p.recover()
			return nil, false
		}
		value := p.readRestOfLineValue()
		props = append(props, ast.Property{
			Key: keyTok.Text, Value: value,
			Span: loc.Span{Start: keyTok.Span.Start, End: p.prevEnd(), File: keyTok.Span.File},
		})
	}
	p.expectPunct("}")
	return props, true
}
