package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// renderCtx carries the state that varies as rendering descends through
// Tag children and into Instance bodies (spec §4.3 step 3). It is
// passed by value; each recursive call that crosses an Instance
// boundary builds a fresh one rather than mutating a shared struct, so
// sibling subtrees never see each other's slot bindings.
type renderCtx struct {
	arena         *ast.Arena
	symbols       *SymbolTable
	componentName string
	variants      map[string]ast.Variant
	slotContent   map[string][]ast.NodeID // slot name -> Insert'd node IDs, owned by callerCtx.arena
	slotDefaults  map[string][]ast.NodeID // slot name -> declared default body, owned by this ctx.arena
	callerCtx     *renderCtx              // the context Instance was rendered from, for resolving slot content
}

func variantMap(variants []ast.Variant) map[string]ast.Variant {
	m := make(map[string]ast.Variant, len(variants))
	for _, v := range variants {
		m[v.Name] = v
	}
	return m
}

func slotDefaultMap(slots []ast.Slot) map[string][]ast.NodeID {
	m := make(map[string][]ast.NodeID, len(slots))
	for _, s := range slots {
		m[s.Name] = s.DefaultBodyIDs
	}
	return m
}

// renderComponent renders a public component's single root VNode
// (spec §4.3 steps 2-4), annotating it with its @frame data attributes.
func (e *evalCtx) renderComponent(c *ast.Component, symbols *SymbolTable) *vdom.VNode {
	if c.BodyID == "" {
		return nil
	}
	ctx := renderCtx{
		arena:         symbols.doc.Arena,
		symbols:       symbols,
		componentName: c.Name,
		variants:      variantMap(c.Variants),
		slotDefaults:  slotDefaultMap(c.Slots),
	}
	nodes := e.renderElement(ctx, c.BodyID, []string{c.Name}, 0)
	if len(nodes) == 0 {
		return nil
	}
	root := nodes[0]
	if c.Frame != nil && root.Kind == vdom.KindElement {
		root.Attributes["data-frame-x"] = formatFloat(c.Frame.X)
		root.Attributes["data-frame-y"] = formatFloat(c.Frame.Y)
		root.Attributes["data-frame-width"] = formatFloat(c.Frame.Width)
		if c.Frame.Height != nil {
			root.Attributes["data-frame-height"] = formatFloat(*c.Frame.Height)
		}
	}
	return root
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderElement renders the element at id and returns the VNodes it
// expands to: one for Tag, Text, Conditional and Repeat; SlotInsert may
// expand to zero or many (its resolved content's own nodes), an
// Instance expands to its component's rendered body (none when the
// component has no body), and an Insert outside an Instance renders
// nothing.
func (e *evalCtx) renderElement(ctx renderCtx, id ast.NodeID, chain []string, siblingIndex int) []*vdom.VNode {
	n, ok := ctx.arena.Get(id)
	if !ok {
		return nil
	}
	switch n.Kind {
	case ast.KindTag:
		return []*vdom.VNode{e.renderTag(ctx, n, chain, siblingIndex)}
	case ast.KindText:
		return []*vdom.VNode{e.renderText(n)}
	case ast.KindInstance:
		return e.renderInstance(ctx, n, chain, siblingIndex)
	case ast.KindConditional:
		return []*vdom.VNode{{
			Kind:     vdom.KindComment,
			Content:  fmt.Sprintf("if:%s", n.CondExpr),
			SourceID: string(n.ID),
		}}
	case ast.KindRepeat:
		return []*vdom.VNode{{
			Kind:     vdom.KindComment,
			Content:  fmt.Sprintf("repeat:%s in %s", n.RepeatBinder, n.RepeatIterable),
			SourceID: string(n.ID),
		}}
	case ast.KindSlotInsert:
		return e.renderSlotInsert(ctx, n)
	default:
		return nil
	}
}

func (e *evalCtx) renderText(n *ast.Node) *vdom.VNode {
	content := n.TextContent
	if n.IsTextExpr {
		content = n.TextExpr
	}
	return &vdom.VNode{Kind: vdom.KindText, Content: content, SourceID: string(n.ID)}
}

func (e *evalCtx) renderTag(ctx renderCtx, n *ast.Node, chain []string, siblingIndex int) *vdom.VNode {
	elementName := n.Name
	if elementName == "" {
		elementName = n.Tag
	}
	childChain := append(append([]string{}, chain...), fmt.Sprintf("%s#%d", elementName, siblingIndex))

	vn := vdom.NewElement(n.Tag)
	vn.SourceID = string(n.ID)
	vn.SemanticID = SemanticID(childChain)

	namespace := Namespace(ctx.componentName, n.Tag, n.Name, n.ID)
	vn.Classes = append(vn.Classes, namespace)

	for _, a := range n.Attributes {
		vn.Attributes[a.Key] = a.Value
	}

	for _, sb := range n.Styles {
		e.emitStyleBlock(ctx, namespace, sb)
	}

	for idx, childID := range n.ChildIDs {
		for _, childVN := range e.renderElement(ctx, childID, childChain, idx) {
			vn.Children = append(vn.Children, childVN)
		}
	}
	return vn
}

// emitStyleBlock resolves one style block's properties and appends a
// CssRule to the result (spec §4.3, "Style handling").
func (e *evalCtx) emitStyleBlock(ctx renderCtx, namespace string, sb ast.StyleBlock) {
	selector := "." + namespace
	mediaQuery := ""

	if len(sb.VariantCombo) > 0 {
		var suffixes []string
		for _, ref := range sb.VariantCombo {
			v, ok := ctx.variants[ref.Name]
			if !ok {
				e.report(UnknownVariant, ref.Name, ref.Span)
				continue
			}
			for _, tref := range v.Triggers {
				selectorText := tref.InlineSelector
				if selectorText == "" {
					trig, ok := ctx.symbols.LookupTrigger(tref.Name)
					if !ok {
						e.report(UnknownTrigger, tref.Name, tref.Span)
						continue
					}
					for _, s := range trig.Selectors {
						suffixes = append(suffixes, s)
					}
					continue
				}
				suffixes = append(suffixes, selectorText)
			}
		}
		for _, s := range suffixes {
			if strings.HasPrefix(strings.TrimSpace(s), "@media") {
				mediaQuery = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "@media"))
			} else {
				selector += s
			}
		}
	}

	props := make(map[string]string, len(sb.Properties))
	for _, prop := range sb.Properties {
		resolved, unknown := ResolveTokenRefs(prop.Value, func(ref string) (string, bool) {
			t, ok := ctx.symbols.LookupToken(ref)
			if !ok {
				return "", false
			}
			return t.Value, true
		})
		for _, u := range unknown {
			e.report(UnknownToken, u, prop.Span)
		}
		if HasImportant(resolved) {
			resolved = StripImportant(resolved) + " !important"
		}
		props[prop.Key] = resolved
	}

	e.result.Document.Styles = append(e.result.Document.Styles, vdom.CssRule{
		Selector: selector, Properties: props, MediaQuery: mediaQuery,
	})
}

func (e *evalCtx) renderInstance(ctx renderCtx, n *ast.Node, chain []string, siblingIndex int) []*vdom.VNode {
	refComp, ok := ctx.symbols.LookupComponent(n.ComponentRef)
	if !ok {
		e.report(UnknownComponent, n.ComponentRef, n.Span)
		return []*vdom.VNode{{Kind: vdom.KindComment, Content: "unknown component: " + n.ComponentRef, SourceID: string(n.ID)}}
	}
	calleeArena, ok := ctx.symbols.ArenaFor(n.ComponentRef)
	if !ok {
		calleeArena = ctx.arena
	}
	calleeSymbols, ok := ctx.symbols.SymbolTableFor(n.ComponentRef)
	if !ok {
		calleeSymbols = ctx.symbols
	}

	slotContent := make(map[string][]ast.NodeID)
	for _, childID := range n.InstanceChildIDs {
		insertNode, ok := ctx.arena.Get(childID)
		if !ok || insertNode.Kind != ast.KindInsert {
			continue
		}
		slotContent[insertNode.InsertSlotName] = insertNode.InsertChildIDs
	}

	outer := ctx
	inner := renderCtx{
		arena:         calleeArena,
		symbols:       calleeSymbols,
		componentName: refComp.Name,
		variants:      variantMap(refComp.Variants),
		slotContent:   slotContent,
		slotDefaults:  slotDefaultMap(refComp.Slots),
		callerCtx:     &outer,
	}

	if refComp.BodyID == "" {
		return nil
	}
	instanceChain := append(append([]string{}, chain...), fmt.Sprintf("instance:%s#%d", n.ComponentRef, siblingIndex))
	return e.renderElement(inner, refComp.BodyID, instanceChain, 0)
}

func (e *evalCtx) renderSlotInsert(ctx renderCtx, n *ast.Node) []*vdom.VNode {
	if _, declared := ctx.slotDefaults[n.SlotInsertName]; !declared {
		e.report(UnknownSlot, n.SlotInsertName, n.Span)
		return nil
	}
	if content, ok := ctx.slotContent[n.SlotInsertName]; ok && ctx.callerCtx != nil {
		var out []*vdom.VNode
		for idx, id := range content {
			out = append(out, e.renderElement(*ctx.callerCtx, id, []string{n.SlotInsertName}, idx)...)
		}
		return out
	}
	var out []*vdom.VNode
	for idx, id := range ctx.slotDefaults[n.SlotInsertName] {
		out = append(out, e.renderElement(ctx, id, []string{n.SlotInsertName}, idx)...)
	}
	return out
}
