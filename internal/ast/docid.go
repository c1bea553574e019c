package ast

import "github.com/paperclip-run/paperclip-core/internal/idhash"

// ComputeDocumentID returns the deterministic document ID for a file
// path: a 32-bit checksum of "file://" + the normalized path, rendered
// as lowercase hex (spec §3, §8).
func ComputeDocumentID(path string) string {
	return idhash.DocumentID(path)
}
