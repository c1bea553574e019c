// Package idhash implements the deterministic hashing used to derive
// document IDs and semantic IDs (spec §3): a 32-bit checksum of a
// normalized string, rendered as lowercase hex. The teacher corpus
// (withastro-compiler) vendors its own xxhash implementation under
// internal/xxhash for exactly this purpose (internal/hash.go); that
// package wasn't retrieved into this pack, so we depend directly on the
// same hash family's canonical module instead of re-vendoring it.
package idhash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

const hexDigits = "0123456789abcdef"

// sum32Hex truncates a 64-bit xxhash digest to its low 32 bits and
// renders it as 8 lowercase hex digits, matching spec §3's "32-bit
// checksum ... rendered as lowercase hex."
func sum32Hex(sum uint64) string {
	var buf [8]byte
	v := uint32(sum)
	for i := 7; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf[:])
}

// DocumentID returns the deterministic 32-bit checksum of "file://" +
// the normalized path, rendered as lowercase hex (spec §3).
func DocumentID(path string) string {
	normalized := normalizePath(path)
	return sum32Hex(xxhash.Sum64String("file://" + normalized))
}

func normalizePath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// Semantic hashes an arbitrary ancestor-chain key (component name,
// element name or tag, sibling index, ...) into a stable, content
// derived identifier used for keyed VDOM diffing (spec §4.3, §8).
func Semantic(parts ...string) string {
	return sum32Hex(xxhash.Sum64String(strings.Join(parts, "\x1f")))
}
