package parser

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
	"github.com/paperclip-run/paperclip-core/internal/token"
)

// componentMemberKeywords is the recovery set used inside a component
// body: on a malformed member, skip ahead to the next of these rather
// than bailing out of the whole document (spec §4.2).
var componentMemberKeywords = map[string]bool{
	"variant": true, "slot": true, "render": true,
}

func (p *parser) parseComponent(public bool) {
	start := p.peek().Span
	p.advance() // 'component'

	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recover()
		return
	}

	comp := ast.Component{Public: public, Name: nameTok.Text}
	if p.lastDoc != "" {
		comp.Frame = parseFrameAnnotation(p.lastDoc)
		comp.View = parseViewAnnotation(p.lastDoc)
		comp.Viewport = parseViewportAnnotation(p.lastDoc)
	}
	p.lastDoc = ""

	if _, ok := p.expectPunct("{"); !ok {
		p.recover()
		return
	}

	for !p.atEOF() && !p.isPunct("}") {
		switch {
		case p.isKeyword("variant"):
			if v, ok := p.parseVariant(); ok {
				comp.Variants = append(comp.Variants, v)
			}
		case p.isKeyword("slot"):
			if s, ok := p.parseSlotDecl(); ok {
				comp.Slots = append(comp.Slots, s)
			}
		case p.isIdentifierText("script"):
			comp.Script = p.parseScriptDecl()
		case p.isKeyword("render"):
			p.advance()
			if id, ok := p.parseElement(); ok {
				comp.BodyID = id
			}
		default:
			p.reportUnexpected("variant, slot, script, or render")
			p.recoverWithin(componentMemberKeywords)
		}
	}
	p.expectPunct("}")

	comp.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	p.doc.Components = append(p.doc.Components, comp)
}

// recoverWithin skips tokens until one matching keywords, a component-
// closing '}', or Eof is found — used for error recovery local to a
// component body rather than the whole-document recovery in recover().
func (p *parser) recoverWithin(keywords map[string]bool) {
	for !p.atEOF() {
		t := p.peek()
		if t.Kind == token.Keyword && keywords[t.Text] {
			return
		}
		if t.Kind == token.Punct && t.Text == "}" {
			return
		}
		p.advance()
	}
}

// parseVariant parses `variant name trigger { ref ref ... }` (spec §3,
// §8 scenario 2). Each ref is either a bare trigger name or an inline
// string selector/media-query.
func (p *parser) parseVariant() (ast.Variant, bool) {
	start := p.peek().Span
	p.advance() // 'variant'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recoverWithin(componentMemberKeywords)
		return ast.Variant{}, false
	}
	if _, ok := p.expectKeyword("trigger"); !ok {
		p.recoverWithin(componentMemberKeywords)
		return ast.Variant{}, false
	}
	if _, ok := p.expectPunct("{"); !ok {
		p.recoverWithin(componentMemberKeywords)
		return ast.Variant{}, false
	}
	var refs []ast.TriggerRef
	for !p.atEOF() && !p.isPunct("}") {
		t := p.peek()
		switch t.Kind {
		case token.String:
			p.advance()
			refs = append(refs, ast.TriggerRef{InlineSelector: unquote(t.Text), Span: t.Span})
		case token.Identifier:
			p.advance()
			refs = append(refs, ast.TriggerRef{Name: t.Text, Span: t.Span})
		default:
			p.reportUnexpected("trigger name or inline selector string")
			p.recoverWithin(componentMemberKeywords)
			return ast.Variant{}, false
		}
	}
	p.expectPunct("}")
	return ast.Variant{
		Name: nameTok.Text, Triggers: refs,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	}, true
}

// parseSlotDecl parses `slot name { <default content> }` as a
// component member (spec §3). A bare `slot name` with no following
// '{' inside a render tree is instead a SlotInsert placeholder and is
// handled in element.go.
func (p *parser) parseSlotDecl() (ast.Slot, bool) {
	start := p.peek().Span
	p.advance() // 'slot'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recoverWithin(componentMemberKeywords)
		return ast.Slot{}, false
	}
	if !p.isPunct("{") {
		p.reportUnexpected("{")
		p.recoverWithin(componentMemberKeywords)
		return ast.Slot{}, false
	}
	p.advance()
	var bodyIDs []ast.NodeID
	for !p.atEOF() && !p.isPunct("}") {
		id, ok := p.parseElementInline()
		if !ok {
			p.recoverWithin(componentMemberKeywords)
			return ast.Slot{}, false
		}
		bodyIDs = append(bodyIDs, id)
	}
	p.expectPunct("}")
	return ast.Slot{
		Name: nameTok.Text, DefaultBodyIDs: bodyIDs,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	}, true
}

// parseScriptDecl parses `script { <opaque source> }`. The body is
// never interpreted by the core pipeline (spec §4.3).
func (p *parser) parseScriptDecl() *ast.ScriptRef {
	start := p.peek().Span
	p.advance() // 'script' identifier
	src, ok := p.readBalancedBraces()
	if !ok {
		return nil
	}
	return &ast.ScriptRef{
		Source: src,
		Span:   loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	}
}
