package vdomdiff

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// Apply reconstructs new by replaying patches on top of old (spec §8:
// "Patches produced by diff(old, new) applied to old yield new").
// Patches address a node either by its own
// full path (UpdateText/UpdateAttributes/UpdateStyles/UpdateClasses/
// Replace) or, for Insert/Remove, by parent-path-plus-child-index,
// where Remove indexes into old's children and Insert indexes into
// new's (see diffChildren) — Apply replays both coordinate systems in
// the same order the differ reasons about them: removes first (so
// surviving old indices don't shift under later removes), then inserts
// at their already-final position.
func Apply(old *vdom.VDocument, patches []Patch) *vdom.VDocument {
	var oldNodes []*vdom.VNode
	if old != nil {
		oldNodes = old.Nodes
	}

	idx := indexPatches(patches)
	newNodes := idx.rebuildChildren(nil, oldNodes)

	doc := &vdom.VDocument{Nodes: newNodes}
	if old != nil {
		doc.Styles = append([]vdom.CssRule(nil), old.Styles...)
	}
	return doc
}

// childInsert is a pending Insert at a resolved new-tree index.
type childInsert struct {
	index int
	node  *vdom.VNode
}

// patchIndex groups a flat patch list by the coordinate it addresses:
// nodePatches for patches keyed on a node's own path, and
// removes/inserts for patches keyed on a parent path plus child index.
type patchIndex struct {
	nodePatches map[string][]Patch
	removes     map[string]map[int]bool
	inserts     map[string][]childInsert
}

func pathKey(path []int) string {
	strs := make([]string, len(path))
	for i, p := range path {
		strs[i] = strconv.Itoa(p)
	}
	return strings.Join(strs, ",")
}

func indexPatches(patches []Patch) *patchIndex {
	idx := &patchIndex{
		nodePatches: make(map[string][]Patch),
		removes:     make(map[string]map[int]bool),
		inserts:     make(map[string][]childInsert),
	}
	for _, p := range patches {
		switch p.Kind {
		case Remove, Insert:
			if len(p.Path) == 0 {
				continue
			}
			parent := pathKey(p.Path[:len(p.Path)-1])
			last := p.Path[len(p.Path)-1]
			if p.Kind == Remove {
				if idx.removes[parent] == nil {
					idx.removes[parent] = make(map[int]bool)
				}
				idx.removes[parent][last] = true
			} else {
				idx.inserts[parent] = append(idx.inserts[parent], childInsert{index: last, node: p.Node})
			}
		default:
			key := pathKey(p.Path)
			idx.nodePatches[key] = append(idx.nodePatches[key], p)
		}
	}
	for parent := range idx.inserts {
		sort.Slice(idx.inserts[parent], func(i, j int) bool {
			return idx.inserts[parent][i].index < idx.inserts[parent][j].index
		})
	}
	return idx
}

// rebuildChildren reconstructs one sibling list under parentPath: old
// children surviving a Remove keep their relative order (this is
// exactly the LCS's old-side order), then Inserts are spliced in at
// their recorded new-tree index, and every surviving old child is
// recursively rebuilt at its resulting new path.
func (idx *patchIndex) rebuildChildren(parentPath []int, old []*vdom.VNode) []*vdom.VNode {
	parentKey := pathKey(parentPath)
	removed := idx.removes[parentKey]

	var kept []*vdom.VNode
	for i, n := range old {
		if removed[i] {
			continue
		}
		kept = append(kept, n)
	}

	inserts := idx.inserts[parentKey]
	total := len(kept) + len(inserts)
	if total == 0 {
		return nil
	}

	result := make([]*vdom.VNode, 0, total)
	insertAt := make(map[int]*vdom.VNode, len(inserts))
	for _, in := range inserts {
		insertAt[in.index] = in.node
	}

	keptPos := 0
	for pos := 0; pos < total; pos++ {
		if n, ok := insertAt[pos]; ok {
			result = append(result, cloneVNode(n))
			continue
		}
		child := kept[keptPos]
		keptPos++
		childPath := append(append([]int(nil), parentPath...), pos)
		result = append(result, idx.rebuildNode(childPath, child))
	}
	return result
}

// rebuildNode applies a kept child's own node-level patches (text,
// attribute/style/class deltas, or a wholesale Replace) and recurses
// into its children.
func (idx *patchIndex) rebuildNode(path []int, old *vdom.VNode) *vdom.VNode {
	patches := idx.nodePatches[pathKey(path)]

	for _, p := range patches {
		if p.Kind == Replace {
			return cloneVNode(p.Node)
		}
	}

	n := cloneVNode(old)
	for _, p := range patches {
		switch p.Kind {
		case UpdateText:
			n.Content = p.Text
		case UpdateAttributes:
			applyAttrChanges(n.Attributes, p.AttributeChanges)
		case UpdateStyles:
			applyAttrChanges(n.Styles, p.StyleChanges)
		case UpdateClasses:
			n.Classes = applyClassChanges(n.Classes, p.AddClasses, p.RemoveClasses)
		}
	}
	if n.Kind == vdom.KindElement {
		n.Children = idx.rebuildChildren(path, old.Children)
	}
	return n
}

func applyAttrChanges(m map[string]string, changes []AttrChange) {
	for _, c := range changes {
		if c.Removed {
			delete(m, c.Key)
			continue
		}
		m[c.Key] = c.Value
	}
}

func applyClassChanges(classes []string, add, remove []string) []string {
	removeSet := toSet(remove)
	out := make([]string, 0, len(classes)+len(add))
	for _, c := range classes {
		if !removeSet[c] {
			out = append(out, c)
		}
	}
	out = append(out, add...)
	return out
}

// cloneVNode deep-copies a VNode so Apply's result shares no mutable
// state with either the old document or the patches' own Node/Child
// references.
func cloneVNode(n *vdom.VNode) *vdom.VNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Attributes != nil {
		c.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			c.Attributes[k] = v
		}
	}
	if n.Styles != nil {
		c.Styles = make(map[string]string, len(n.Styles))
		for k, v := range n.Styles {
			c.Styles[k] = v
		}
	}
	c.Classes = append([]string(nil), n.Classes...)
	if n.Children != nil {
		c.Children = make([]*vdom.VNode, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = cloneVNode(ch)
		}
	}
	return &c
}
