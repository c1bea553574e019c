package parser

import (
	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
	"github.com/paperclip-run/paperclip-core/internal/token"
	"golang.org/x/net/html/atom"
)

func isCapitalized(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// newNode allocates and inserts a fresh node into the document arena,
// returning it for the caller to populate.
func (p *parser) newNode(kind ast.ElementKind) *ast.Node {
	n := &ast.Node{ID: p.doc.Arena.NextID(), Kind: kind}
	p.doc.Arena.Insert(n)
	return n
}

// parseElement parses exactly the one required render-root element
// (spec §3, `render <element>`).
func (p *parser) parseElement() (ast.NodeID, bool) {
	return p.parseElementInline()
}

// parseElementInline dispatches on the current token to the matching
// Element production (spec §3's Element sum type).
func (p *parser) parseElementInline() (ast.NodeID, bool) {
	t := p.peek()
	switch {
	case t.Kind == token.Keyword && t.Text == "text":
		return p.parseTextElement()
	case t.Kind == token.Keyword && t.Text == "if":
		return p.parseConditionalElement()
	case t.Kind == token.Keyword && t.Text == "repeat":
		return p.parseRepeatElement()
	case t.Kind == token.Keyword && t.Text == "insert":
		return p.parseInsertElement()
	case t.Kind == token.Keyword && t.Text == "slot":
		return p.parseSlotInsertElement()
	case t.Kind == token.Identifier && isCapitalized(t.Text):
		return p.parseInstanceElement()
	case t.Kind == token.Identifier:
		return p.parseTagElement()
	default:
		p.reportUnexpected("element")
		p.advance()
		return "", false
	}
}

func (p *parser) parseTextElement() (ast.NodeID, bool) {
	start := p.peek().Span
	p.advance() // 'text'
	n := p.newNode(ast.KindText)
	if p.peek().Kind == token.String {
		strTok := p.advance()
		n.TextContent = unquote(strTok.Text)
	} else if p.isPunct("{") {
		expr, ok := p.readBalancedBraces()
		if !ok {
			return n.ID, false
		}
		n.TextExpr = expr
		n.IsTextExpr = true
	} else {
		p.reportUnexpected("string literal or {expression}")
		return n.ID, false
	}
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

func (p *parser) parseTagElement() (ast.NodeID, bool) {
	start := p.peek().Span
	tagTok := p.advance()
	n := p.newNode(ast.KindTag)
	n.Tag = tagTok.Text
	n.TagAtom = atom.Lookup([]byte(tagTok.Text))

	if p.isKeyword("as") {
		p.advance()
		if aliasTok, ok := p.expectIdentifier(); ok {
			n.Name = aliasTok.Text
		}
	}
	n.Attributes = p.parseAttributes()

	if _, ok := p.expectPunct("{"); !ok {
		n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
		return n.ID, false
	}
	for !p.atEOF() && !p.isPunct("}") {
		if p.isKeyword("style") {
			sb, ok := p.parseStyleBlock()
			if !ok {
				break
			}
			n.Styles = append(n.Styles, sb)
			continue
		}
		childID, ok := p.parseElementInline()
		if !ok {
			break
		}
		n.ChildIDs = append(n.ChildIDs, childID)
	}
	p.expectPunct("}")
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseAttributes reads zero or more `key="value"` pairs preceding a
// tag or instance's body brace.
func (p *parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for {
		t := p.peek()
		if t.Kind != token.Identifier || p.peekAt(1).Kind != token.Punct || p.peekAt(1).Text != "=" {
			break
		}
		keyTok := p.advance()
		p.advance() // '='
		valTok, ok := p.expectString()
		if !ok {
			break
		}
		attrs = append(attrs, ast.Attribute{
			Key: keyTok.Text, Value: unquote(valTok.Text),
			Span: loc.Span{Start: keyTok.Span.Start, End: p.prevEnd(), File: keyTok.Span.File},
		})
	}
	return attrs
}

// parseStyleBlock parses `style { ... }` or `style variant A + B { ... }`
// attached inline to a tag element (spec §3).
func (p *parser) parseStyleBlock() (ast.StyleBlock, bool) {
	start := p.peek().Span
	p.advance() // 'style'
	var combo []ast.VariantRef
	if p.isKeyword("variant") {
		p.advance()
		for {
			idTok, ok := p.expectIdentifier()
			if !ok {
				return ast.StyleBlock{}, false
			}
			combo = append(combo, ast.VariantRef{Name: idTok.Text, Span: idTok.Span})
			if p.isPunct("+") {
				p.advance()
				continue
			}
			break
		}
	}
	props, ok := p.parsePropertyBlock()
	if !ok {
		return ast.StyleBlock{}, false
	}
	return ast.StyleBlock{
		VariantCombo: combo, Properties: props,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	}, true
}

// parseInstanceElement parses a reference to another component:
// `Name { ... }` or `alias.Name { ... }` (spec §3).
func (p *parser) parseInstanceElement() (ast.NodeID, bool) {
	start := p.peek().Span
	nameTok := p.advance()
	ref := nameTok.Text
	if p.isPunct(".") {
		p.advance()
		if second, ok := p.expectIdentifier(); ok {
			ref = ref + "." + second.Text
		}
	}
	n := p.newNode(ast.KindInstance)
	n.ComponentRef = ref
	n.InstanceAttrs = p.parseAttributes()

	if _, ok := p.expectPunct("{"); !ok {
		n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
		return n.ID, false
	}
	for !p.atEOF() && !p.isPunct("}") {
		childID, ok := p.parseElementInline()
		if !ok {
			break
		}
		n.InstanceChildIDs = append(n.InstanceChildIDs, childID)
	}
	p.expectPunct("}")
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseConditionalElement parses `if (expr) { ... } [else { ... }]`
// (spec §3). expr is carried as opaque text, never evaluated by the
// core pipeline (spec §4.3: conditionals/repeats emit markers, they do
// not branch).
func (p *parser) parseConditionalElement() (ast.NodeID, bool) {
	start := p.peek().Span
	p.advance() // 'if'
	expr, ok := p.readBalancedParens()
	if !ok {
		return "", false
	}
	n := p.newNode(ast.KindConditional)
	n.CondExpr = expr

	thenID, ok := p.parseBracedElementList()
	if !ok {
		return n.ID, false
	}
	n.CondThenID = thenID

	if p.isKeyword("else") {
		p.advance()
		elseID, ok := p.parseBracedElementList()
		if !ok {
			return n.ID, false
		}
		n.CondElseID = elseID
	}
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseBracedElementList wraps a `{ elem elem ... }` block of sibling
// elements in a synthetic Tag("fragment") node so branches of a
// Conditional (and a Repeat body) can be addressed by a single NodeID.
func (p *parser) parseBracedElementList() (ast.NodeID, bool) {
	start := p.peek().Span
	if _, ok := p.expectPunct("{"); !ok {
		return "", false
	}
	n := p.newNode(ast.KindTag)
	n.Tag = "fragment"
	for !p.atEOF() && !p.isPunct("}") {
		childID, ok := p.parseElementInline()
		if !ok {
			break
		}
		n.ChildIDs = append(n.ChildIDs, childID)
	}
	p.expectPunct("}")
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseRepeatElement parses `repeat item in items { ... }` (spec §3).
func (p *parser) parseRepeatElement() (ast.NodeID, bool) {
	start := p.peek().Span
	p.advance() // 'repeat'
	binderTok, ok := p.expectIdentifier()
	if !ok {
		return "", false
	}
	if _, ok := p.expectKeyword("in"); !ok {
		return "", false
	}
	iterStart := p.peek().Span.Start
	iterEnd := iterStart
	for !p.atEOF() && !p.isPunct("{") {
		iterEnd = p.peek().Span.End
		p.advance()
	}
	n := p.newNode(ast.KindRepeat)
	n.RepeatBinder = binderTok.Text
	n.RepeatIterable = p.src[iterStart:iterEnd]

	bodyID, ok := p.parseBracedElementList()
	if !ok {
		return n.ID, false
	}
	n.RepeatBodyID = bodyID
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseInsertElement parses `insert slotName { ... }` inside an
// Instance body (spec §3).
func (p *parser) parseInsertElement() (ast.NodeID, bool) {
	start := p.peek().Span
	p.advance() // 'insert'
	slotTok, ok := p.expectIdentifier()
	if !ok {
		return "", false
	}
	n := p.newNode(ast.KindInsert)
	n.InsertSlotName = slotTok.Text

	if _, ok := p.expectPunct("{"); !ok {
		n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
		return n.ID, false
	}
	for !p.atEOF() && !p.isPunct("}") {
		childID, ok := p.parseElementInline()
		if !ok {
			break
		}
		n.InsertChildIDs = append(n.InsertChildIDs, childID)
	}
	p.expectPunct("}")
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}

// parseSlotInsertElement parses a bare `slot name` placeholder inside a
// render tree, marking where a slot's content should be rendered
// (spec §3). A component-level `slot name { ... }` default-content
// declaration is a different production, handled in component.go.
func (p *parser) parseSlotInsertElement() (ast.NodeID, bool) {
	start := p.peek().Span
	p.advance() // 'slot'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		return "", false
	}
	n := p.newNode(ast.KindSlotInsert)
	n.SlotInsertName = nameTok.Text
	n.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	return n.ID, true
}
