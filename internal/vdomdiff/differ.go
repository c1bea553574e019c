package vdomdiff

import (
	"strconv"

	"github.com/paperclip-run/paperclip-core/internal/vdom"
)

// Diff produces the patch list that turns old into new (spec §4.4).
// Both documents' root node lists are treated as a single synthetic
// keyed sequence, since VDocument.Nodes is itself a list of public
// component roots.
func Diff(old, new *vdom.VDocument) []Patch {
	var oldNodes, newNodes []*vdom.VNode
	if old != nil {
		oldNodes = old.Nodes
	}
	if new != nil {
		newNodes = new.Nodes
	}
	d := &differ{}
	d.diffChildren(nil, oldNodes, newNodes)
	return d.patches
}

type differ struct {
	patches []Patch
}

func (d *differ) emit(p Patch) { d.patches = append(d.patches, p) }

// diffNode diffs a single matched or mismatched pair at path (spec
// §4.4 step 1-2).
func (d *differ) diffNode(path []int, o, n *vdom.VNode) {
	if o == nil && n == nil {
		return
	}
	if o == nil {
		d.emit(Patch{Kind: Insert, Path: clonePath(path), Node: n})
		return
	}
	if n == nil {
		d.emit(Patch{Kind: Remove, Path: clonePath(path)})
		return
	}
	if !sameIdentity(o, n) {
		d.emit(Patch{Kind: Replace, Path: clonePath(path), Node: n})
		return
	}
	if o.Kind != n.Kind {
		d.emit(Patch{Kind: Replace, Path: clonePath(path), Node: n})
		return
	}
	switch n.Kind {
	case vdom.KindText, vdom.KindComment:
		if o.Content != n.Content {
			d.emit(Patch{Kind: UpdateText, Path: clonePath(path), Text: n.Content})
		}
	case vdom.KindElement:
		d.diffAttributes(path, o.Attributes, n.Attributes)
		d.diffStyles(path, o.Styles, n.Styles)
		d.diffClasses(path, o.Classes, n.Classes)
		d.diffChildren(path, o.Children, n.Children)
	}
}

// sameIdentity implements spec §4.4 step 1: nodes are "the same
// element across versions" if their semantic IDs match, or (for nodes
// without one, e.g. freshly parsed with no prior evaluation) their tag
// and source_id match.
func sameIdentity(o, n *vdom.VNode) bool {
	if o.Kind != vdom.KindElement || n.Kind != vdom.KindElement {
		return o.Kind == n.Kind
	}
	if o.SemanticID != "" && n.SemanticID != "" {
		return o.SemanticID == n.SemanticID
	}
	return o.Tag == n.Tag && o.SourceID == n.SourceID
}

func (d *differ) diffAttributes(path []int, o, n map[string]string) {
	var changes []AttrChange
	for k, nv := range n {
		if ov, ok := o[k]; !ok || ov != nv {
			changes = append(changes, AttrChange{Key: k, Value: nv})
		}
	}
	for k := range o {
		if _, ok := n[k]; !ok {
			changes = append(changes, AttrChange{Key: k, Removed: true})
		}
	}
	if len(changes) > 0 {
		d.emit(Patch{Kind: UpdateAttributes, Path: clonePath(path), AttributeChanges: changes})
	}
}

func (d *differ) diffStyles(path []int, o, n map[string]string) {
	var changes []AttrChange
	for k, nv := range n {
		if ov, ok := o[k]; !ok || ov != nv {
			changes = append(changes, AttrChange{Key: k, Value: nv})
		}
	}
	for k := range o {
		if _, ok := n[k]; !ok {
			changes = append(changes, AttrChange{Key: k, Removed: true})
		}
	}
	if len(changes) > 0 {
		d.emit(Patch{Kind: UpdateStyles, Path: clonePath(path), StyleChanges: changes})
	}
}

func (d *differ) diffClasses(path []int, o, n []string) {
	oSet := toSet(o)
	nSet := toSet(n)
	var add, remove []string
	for _, c := range n {
		if !oSet[c] {
			add = append(add, c)
		}
	}
	for _, c := range o {
		if !nSet[c] {
			remove = append(remove, c)
		}
	}
	if len(add) > 0 || len(remove) > 0 {
		d.emit(Patch{Kind: UpdateClasses, Path: clonePath(path), AddClasses: add, RemoveClasses: remove})
	}
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// diffChildren reconciles two child lists keyed by semantic ID where
// available, positionally otherwise (spec §4.4 step 3): compute the
// longest common subsequence of shared keys, then Remove orphans,
// Insert newcomers, and recurse on matched pairs. A key surviving the
// LCS but at a new index still only recurses (never re-emitted as
// Remove+Insert) — only keys that fall OUT of the subsequence move.
func (d *differ) diffChildren(path []int, old, new []*vdom.VNode) {
	oldKeys := make([]string, len(old))
	for i, n := range old {
		oldKeys[i] = childKey(n, i)
	}
	newKeys := make([]string, len(new))
	for i, n := range new {
		newKeys[i] = childKey(n, i)
	}

	lcs := longestCommonSubsequence(oldKeys, newKeys)
	lcsOld := make(map[int]bool, len(lcs))
	lcsNew := make(map[int]bool, len(lcs))
	for _, pair := range lcs {
		lcsOld[pair[0]] = true
		lcsNew[pair[1]] = true
	}

	// Keys outside the LCS are emitted as Remove (old side) and Insert
	// (new side); a key present on both sides but outside the LCS is a
	// Move, which spec §4.4 defines as exactly this Remove+Insert pair.
	for i := range old {
		if !lcsOld[i] {
			d.emit(Patch{Kind: Remove, Path: append(clonePath(path), i)})
		}
	}
	for i, n := range new {
		if !lcsNew[i] {
			d.emit(Patch{Kind: Insert, Path: append(clonePath(path), i), Node: n})
		}
	}
	for _, pair := range lcs {
		childPath := append(clonePath(path), pair[1])
		d.diffNode(childPath, old[pair[0]], new[pair[1]])
	}
}

// childKey returns a VNode's diffing key: its semantic ID when set,
// else a positional fallback that never collides with a real ID.
func childKey(n *vdom.VNode, index int) string {
	if n != nil && n.Kind == vdom.KindElement && n.SemanticID != "" {
		return n.SemanticID
	}
	return positionalKey(index)
}

func positionalKey(i int) string {
	return "\x00pos:" + strconv.Itoa(i)
}

func clonePath(path []int) []int {
	out := make([]int, len(path))
	copy(out, path)
	return out
}

// longestCommonSubsequence returns matched (oldIndex, newIndex) pairs
// for the longest common subsequence of a and b by value equality —
// the classic O(len(a)*len(b)) dynamic-programming LCS (spec §4.4's
// "compute the longest-common-subsequence of keyed nodes").
func longestCommonSubsequence(a, b []string) [][2]int {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	var pairs [][2]int
	i, j := 0, 0
	for i < n && j < m {
		if a[i] == b[j] {
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		} else if dp[i+1][j] >= dp[i][j+1] {
			i++
		} else {
			j++
		}
	}
	return pairs
}
