package objects

import (
	"bytes"
	"fmt"
	"sort"
)

// Tree object modes (spec §3).
const (
	ModeTree = "40000"
	ModeBlob = "100644"
)

// TreeEntry is one child of a Tree: a subtree or a blob.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsTree reports whether the entry names a subtree.
func (e TreeEntry) IsTree() bool { return e.Mode == ModeTree }

// SortTreeEntries orders entries directories-first, then lexicographically
// by name — the total order required by spec §3 and §4.5.
func SortTreeEntries(entries []TreeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsTree() != b.IsTree() {
			return a.IsTree() // trees (directories) sort first
		}
		return a.Name < b.Name
	})
}

// EncodeTree serializes entries into the binary tree payload: each child as
// "<mode> <name>\0<20-byte-raw-hash>" concatenated, with no trailing
// newline. This resolves Open Question 1 of spec §9 in favor of the binary
// form (raw hash bytes), matching the reader both the teacher and this
// module use.
func EncodeTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	SortTreeEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// DecodeTree parses a binary tree payload into its entries.
func DecodeTree(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry

	i := 0
	for i < len(payload) {
		spaceIdx := indexByte(payload[i:], ' ')
		if spaceIdx == -1 {
			return nil, fmt.Errorf("%w: tree entry missing space after mode", ErrCorruptObject)
		}
		mode := string(payload[i : i+spaceIdx])
		i += spaceIdx + 1

		nulIdx := indexByte(payload[i:], 0)
		if nulIdx == -1 {
			return nil, fmt.Errorf("%w: tree entry missing NUL after name", ErrCorruptObject)
		}
		name := string(payload[i : i+nulIdx])
		i += nulIdx + 1

		if i+HashSize > len(payload) {
			return nil, fmt.Errorf("%w: tree entry has truncated hash", ErrCorruptObject)
		}
		var hash Hash
		copy(hash[:], payload[i:i+HashSize])
		i += HashSize

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: hash})
	}

	return entries, nil
}
