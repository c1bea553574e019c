package ast

import (
	"fmt"
	"strings"
)

// Serialize renders a Document back to Paperclip source text. It is
// used to check the round-trip property parse(serialize(parse(d))) ==
// parse(d), and by tooling that wants to show a human a patched
// document. It does not attempt to reproduce the original formatting
// byte-for-byte, only a canonical equivalent form.
func Serialize(doc *Document) string {
	p := &printer{doc: doc}
	p.printDocument()
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	doc    *Document
	indent int
}

func (p *printer) writeIndent() {
	p.b.WriteString(strings.Repeat("  ", p.indent))
}

func (p *printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) printDocument() {
	for _, imp := range p.doc.Imports {
		if imp.Alias != "" {
			p.line("import %q as %s", imp.Path, imp.Alias)
		} else {
			p.line("import %q", imp.Path)
		}
	}
	for _, tok := range p.doc.Tokens {
		p.line("%stoken %s: %s", publicPrefix(tok.Public), tok.Name, tok.Value)
	}
	for _, tr := range p.doc.Triggers {
		p.line("%strigger %s {", publicPrefix(tr.Public), tr.Name)
		p.indent++
		for _, sel := range tr.Selectors {
			p.line("%q", sel)
		}
		p.indent--
		p.line("}")
	}
	for _, sd := range p.doc.StyleDecls {
		if len(sd.Extends) > 0 {
			p.line("%sstyle %s extends %s {", publicPrefix(sd.Public), sd.Name, strings.Join(sd.Extends, ", "))
		} else {
			p.line("%sstyle %s {", publicPrefix(sd.Public), sd.Name)
		}
		p.indent++
		p.printProperties(sd.Properties)
		p.indent--
		p.line("}")
	}
	for i := range p.doc.Components {
		p.printComponent(&p.doc.Components[i])
	}
}

func publicPrefix(public bool) string {
	if public {
		return "public "
	}
	return ""
}

func (p *printer) printProperties(props []Property) {
	for _, prop := range props {
		p.line("%s: %s", prop.Key, prop.Value)
	}
}

func (p *printer) printComponent(c *Component) {
	p.printComponentAnnotations(c)
	p.line("%scomponent %s {", publicPrefix(c.Public), c.Name)
	p.indent++
	for _, v := range c.Variants {
		p.printVariant(v)
	}
	for _, s := range c.Slots {
		p.printSlot(s)
	}
	if c.Script != nil {
		p.line("script {%s}", c.Script.Source)
	}
	if c.BodyID != "" {
		p.writeIndent()
		p.b.WriteString("render ")
		p.printElementInline(c.BodyID)
		p.b.WriteByte('\n')
	}
	p.indent--
	p.line("}")
}

func (p *printer) printComponentAnnotations(c *Component) {
	if c.Frame == nil && c.View == nil && c.Viewport == "" {
		return
	}
	p.line("/**")
	if c.Frame != nil {
		if c.Frame.Height != nil {
			p.line(" * @frame(x: %g, y: %g, width: %g, height: %g)", c.Frame.X, c.Frame.Y, c.Frame.Width, *c.Frame.Height)
		} else {
			p.line(" * @frame(x: %g, y: %g, width: %g)", c.Frame.X, c.Frame.Y, c.Frame.Width)
		}
	}
	if c.View != nil {
		if c.View.Description != "" {
			p.line(" * @view %s - %s", c.View.Name, c.View.Description)
		} else {
			p.line(" * @view %s", c.View.Name)
		}
	}
	if c.Viewport != "" {
		p.line(" * @viewport %s", c.Viewport)
	}
	p.line(" */")
}

func (p *printer) printVariant(v Variant) {
	p.line("variant %s trigger {", v.Name)
	p.indent++
	for _, ref := range v.Triggers {
		if ref.InlineSelector != "" {
			p.line("%q", ref.InlineSelector)
		} else {
			p.line("%s", ref.Name)
		}
	}
	p.indent--
	p.line("}")
}

func (p *printer) printSlot(s Slot) {
	p.line("slot %s {", s.Name)
	p.indent++
	for _, id := range s.DefaultBodyIDs {
		p.writeIndent()
		p.printElementInline(id)
		p.b.WriteByte('\n')
	}
	p.indent--
	p.line("}")
}

// printElementInline writes a single element at the current cursor
// position (no leading indent/trailing newline of its own), so callers
// control placement on a shared line where needed (e.g. `render <elem>`).
func (p *printer) printElementInline(id NodeID) {
	n, ok := p.doc.Arena.Get(id)
	if !ok {
		p.b.WriteString("/* missing node */")
		return
	}
	switch n.Kind {
	case KindText:
		if n.IsTextExpr {
			fmt.Fprintf(&p.b, "text {%s}", n.TextExpr)
		} else {
			fmt.Fprintf(&p.b, "text %q", n.TextContent)
		}
	case KindTag:
		p.printTag(n)
	case KindInstance:
		p.printInstance(n)
	case KindConditional:
		p.printConditional(n)
	case KindRepeat:
		p.printRepeat(n)
	case KindInsert:
		p.printInsert(n)
	case KindSlotInsert:
		fmt.Fprintf(&p.b, "slot %s", n.SlotInsertName)
	}
}

func (p *printer) printAttributes(attrs []Attribute) {
	for _, a := range attrs {
		fmt.Fprintf(&p.b, " %s=%q", a.Key, a.Value)
	}
}

func (p *printer) printTag(n *Node) {
	fmt.Fprintf(&p.b, "%s", n.Tag)
	if n.Name != "" {
		fmt.Fprintf(&p.b, " as %s", n.Name)
	}
	p.printAttributes(n.Attributes)
	p.b.WriteString(" {\n")
	p.indent++
	for _, sb := range n.Styles {
		p.printStyleBlock(sb)
	}
	for _, childID := range n.ChildIDs {
		p.writeIndent()
		p.printElementInline(childID)
		p.b.WriteByte('\n')
	}
	p.indent--
	p.writeIndent()
	p.b.WriteString("}")
}

func (p *printer) printStyleBlock(sb StyleBlock) {
	if len(sb.VariantCombo) > 0 {
		names := make([]string, len(sb.VariantCombo))
		for i, v := range sb.VariantCombo {
			names[i] = v.Name
		}
		p.line("style variant %s {", strings.Join(names, " + "))
	} else {
		p.line("style {")
	}
	p.indent++
	p.printProperties(sb.Properties)
	p.indent--
	p.line("}")
}

func (p *printer) printInstance(n *Node) {
	fmt.Fprintf(&p.b, "%s", n.ComponentRef)
	p.printAttributes(n.InstanceAttrs)
	p.b.WriteString(" {\n")
	p.indent++
	for _, childID := range n.InstanceChildIDs {
		p.writeIndent()
		p.printElementInline(childID)
		p.b.WriteByte('\n')
	}
	p.indent--
	p.writeIndent()
	p.b.WriteString("}")
}

func (p *printer) printInsert(n *Node) {
	fmt.Fprintf(&p.b, "insert %s {\n", n.InsertSlotName)
	p.indent++
	for _, childID := range n.InsertChildIDs {
		p.writeIndent()
		p.printElementInline(childID)
		p.b.WriteByte('\n')
	}
	p.indent--
	p.writeIndent()
	p.b.WriteString("}")
}

func (p *printer) printConditional(n *Node) {
	fmt.Fprintf(&p.b, "if (%s) {\n", n.CondExpr)
	p.indent++
	p.printFragmentChildren(n.CondThenID)
	p.indent--
	p.writeIndent()
	p.b.WriteString("}")
	if n.CondElseID != "" {
		p.b.WriteString(" else {\n")
		p.indent++
		p.printFragmentChildren(n.CondElseID)
		p.indent--
		p.writeIndent()
		p.b.WriteString("}")
	}
}

func (p *printer) printRepeat(n *Node) {
	fmt.Fprintf(&p.b, "repeat %s in %s {\n", n.RepeatBinder, n.RepeatIterable)
	p.indent++
	p.printFragmentChildren(n.RepeatBodyID)
	p.indent--
	p.writeIndent()
	p.b.WriteString("}")
}

// printFragmentChildren writes the children of a synthetic fragment
// Tag node (created by the parser to group a Conditional/Repeat body)
// without the "fragment { }" wrapper itself, since fragments have no
// source-level spelling.
func (p *printer) printFragmentChildren(id NodeID) {
	n, ok := p.doc.Arena.Get(id)
	if !ok {
		return
	}
	for _, childID := range n.ChildIDs {
		p.writeIndent()
		p.printElementInline(childID)
		p.b.WriteByte('\n')
	}
}
