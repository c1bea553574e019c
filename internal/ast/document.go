package ast

import "github.com/paperclip-run/paperclip-core/internal/loc"

// Import is an `import "./path.pc" as alias`-style declaration (spec §3).
type Import struct {
	Path  string
	Alias string
	Span  loc.Span
}

// TokenDecl is a named design token (spec §3). Named TokenDecl, not
// Token, to avoid colliding with the lexer's token.Token.
type TokenDecl struct {
	Public bool
	Name   string
	Value  string
	Span   loc.Span
}

// Trigger is a named selector/media-query group referenced by variants
// (spec §3).
type Trigger struct {
	Public    bool
	Name      string
	Selectors []string
	Span      loc.Span
}

// StyleDecl is a reusable style mixin (spec §3).
type StyleDecl struct {
	Public     bool
	Name       string
	Extends    []string
	Properties []Property
	Span       loc.Span
}

// TriggerRef names a trigger declared at document scope; InlineSelector
// is a literal selector/media-query string given directly on a variant
// instead of via a named trigger.
type TriggerRef struct {
	Name           string
	InlineSelector string // non-empty means this is an inline selector, not a TriggerRef
	Span           loc.Span
}

// Variant is a named state gated by one or more triggers (spec §3).
type Variant struct {
	Name     string
	Triggers []TriggerRef
	Span     loc.Span
}

// Slot is a named insertion point with optional default content (spec §3).
type Slot struct {
	Name            string
	DefaultBodyIDs  []NodeID
	Span            loc.Span
}

// ScriptRef is a placeholder reference to a component's attached script
// block. Script bodies themselves are not interpreted by the core
// pipeline (spec §4.3, "text element... pass through as a typed
// placeholder").
type ScriptRef struct {
	Source string
	Span   loc.Span
}

// Component is a named, possibly public, reusable render unit (spec §3).
type Component struct {
	Public   bool
	Name     string
	Variants []Variant
	Slots    []Slot
	Script   *ScriptRef
	BodyID   NodeID // zero value means no render body was declared
	Frame    *FrameAnnotation
	View     *ViewAnnotation
	Viewport Viewport
	Span     loc.Span
}

// FrameAnnotation is the parsed form of a `@frame(x:…, y:…, width:…,
// height?:…)` doc-comment annotation (spec §4.3 step 4, §6).
type FrameAnnotation struct {
	X      float64
	Y      float64
	Width  float64
	Height *float64
}

// ViewAnnotation is the parsed form of a `@view name [- description]`
// doc-comment annotation (spec §6).
type ViewAnnotation struct {
	Name        string
	Description string
}

// Viewport is the parsed form of a `@viewport desktop|tablet|mobile`
// doc-comment annotation (spec §6).
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportTablet  Viewport = "tablet"
	ViewportMobile  Viewport = "mobile"
)

// Document is the root AST node for a single `.pc` file (spec §3).
type Document struct {
	DocumentID string
	Path       string

	Imports    []Import
	Tokens     []TokenDecl
	Triggers   []Trigger
	StyleDecls []StyleDecl
	Components []Component

	Arena *Arena
}

// NewDocument creates an empty Document with a freshly allocated Arena,
// addressed by its deterministic document ID (spec §3).
func NewDocument(documentID, path string) *Document {
	return &Document{
		DocumentID: documentID,
		Path:       path,
		Arena:      NewArena(documentID),
	}
}

// FindComponent looks up a component declared in this document by name.
func (d *Document) FindComponent(name string) (*Component, bool) {
	for i := range d.Components {
		if d.Components[i].Name == name {
			return &d.Components[i], true
		}
	}
	return nil, false
}

// PublicComponents returns every component marked public, in
// declaration order (spec §4.3 step 2).
func (d *Document) PublicComponents() []*Component {
	var out []*Component
	for i := range d.Components {
		if d.Components[i].Public {
			out = append(out, &d.Components[i])
		}
	}
	return out
}
