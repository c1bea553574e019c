// Package vdomdiff implements the structural VDOM differ (spec §4.4):
// semantic-ID keyed tree diffing producing a minimal patch list between
// two evaluations of a document.
package vdomdiff

import "github.com/paperclip-run/paperclip-core/internal/vdom"

// PatchKind enumerates the patch operations from spec §4.4.
type PatchKind int

const (
	Insert PatchKind = iota
	Remove
	Replace
	UpdateAttributes
	UpdateStyles
	UpdateText
	UpdateClasses
)

func (k PatchKind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Remove:
		return "Remove"
	case Replace:
		return "Replace"
	case UpdateAttributes:
		return "UpdateAttributes"
	case UpdateStyles:
		return "UpdateStyles"
	case UpdateText:
		return "UpdateText"
	case UpdateClasses:
		return "UpdateClasses"
	default:
		return "Invalid"
	}
}

// AttrChange is one (key, new-value-or-removal) pair inside an
// UpdateAttributes/UpdateStyles patch; Removed distinguishes a value of
// "" from an actual removal (Option<v> in spec §4.4).
type AttrChange struct {
	Key     string
	Value   string
	Removed bool
}

// Patch is a single edit operation at a VDocument position (spec §4.4).
// Path is a vector of child indices from the VDocument root; not every
// field is populated for every Kind.
type Patch struct {
	Kind PatchKind
	Path []int

	Node *vdom.VNode // Insert/Replace

	AttributeChanges []AttrChange // UpdateAttributes
	StyleChanges     []AttrChange // UpdateStyles
	Text             string       // UpdateText
	AddClasses       []string     // UpdateClasses
	RemoveClasses    []string     // UpdateClasses
}
