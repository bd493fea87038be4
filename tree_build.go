package cellvcs

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cellvcs/cellvcs/internal/cell"
	"github.com/cellvcs/cellvcs/internal/index"
	"github.com/cellvcs/cellvcs/internal/objects"
)

// treeNode is an in-memory staging area for building a tree object bottom-up
// from a flat list of staged cell entries, grounded on
// KDT2006-mygit/object.go's buildTreeRecursive, adapted from filesystem
// paths to workbook/sheet/cell paths (spec §4.5 "tree materialization").
type treeNode struct {
	children map[string]*treeNode
	hash     objects.Hash
	isBlob   bool
}

func newTreeNode() *treeNode {
	return &treeNode{children: map[string]*treeNode{}}
}

// buildTree materializes a three-level tree (workbook -> sheet -> cell) from
// the given staged entries and writes every level to the object store,
// returning the root tree's hash.
func (r *Repo) buildTree(entries []index.Entry) (objects.Hash, error) {
	root := newTreeNode()
	for _, e := range entries {
		parts := []string{e.WorkbookID, strconv.Itoa(e.Sheet), cellPathOf(e)}
		insertLeaf(root, parts, e.BlobHash)
	}
	return writeTree(r.objects, root)
}

func cellPathOf(e index.Entry) string {
	return cell.Address{RowLetters: e.RowLetters, ColNumber: e.ColNumber}.Path()
}

func insertLeaf(root *treeNode, parts []string, hash objects.Hash) {
	node := root
	for i, p := range parts {
		if i == len(parts)-1 {
			leaf := newTreeNode()
			leaf.isBlob = true
			leaf.hash = hash
			node.children[p] = leaf
			return
		}
		child, ok := node.children[p]
		if !ok {
			child = newTreeNode()
			node.children[p] = child
		}
		node = child
	}
}

// writeTree recursively writes child trees before their parent (bottom-up,
// spec §4.5), then encodes and stores this node's own tree object.
func writeTree(store *objects.Store, node *treeNode) (objects.Hash, error) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]objects.TreeEntry, 0, len(names))
	for _, name := range names {
		child := node.children[name]
		if child.isBlob {
			entries = append(entries, objects.TreeEntry{Mode: objects.ModeBlob, Name: name, Hash: child.hash})
			continue
		}

		childHash, err := writeTree(store, child)
		if err != nil {
			return objects.ZeroHash, err
		}
		entries = append(entries, objects.TreeEntry{Mode: objects.ModeTree, Name: name, Hash: childHash})
	}

	payload := objects.EncodeTree(entries)
	return store.Put("tree", payload)
}

// entriesFromTree walks a tree object back down into a flat list of index
// entries — the inverse of buildTree — used by HardReset, Revert and
// CherryPick to materialize a commit's tree into the staging index.
//
// Tree objects carry no size metadata, so OriginalSize is recovered from the
// stored blob's decompressed length and CompressedSize is left at 0; any
// caller needing exact compressed sizes must re-stage through Stage.
func (r *Repo) entriesFromTree(treeHash objects.Hash) ([]index.Entry, error) {
	var out []index.Entry
	if err := r.walkTree(treeHash, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) walkTree(treeHash objects.Hash, path []string, out *[]index.Entry) error {
	typ, payload, err := r.objects.Get(treeHash)
	if err != nil {
		return wrapNotFound(err)
	}
	if typ != "tree" {
		return fmt.Errorf("%w: object %s is not a tree", ErrCorruptObject, treeHash)
	}

	children, err := objects.DecodeTree(payload)
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := append(append([]string{}, path...), child.Name)

		if child.IsTree() {
			if err := r.walkTree(child.Hash, childPath, out); err != nil {
				return err
			}
			continue
		}

		entry, ok, err := r.leafToEntry(childPath, child.Hash)
		if err != nil {
			return err
		}
		if ok {
			*out = append(*out, entry)
		}
	}
	return nil
}

// leafToEntry reconstructs an index.Entry from a blob leaf's path
// (workbook/sheet/cell) and hash. A malformed path (wrong depth, bad sheet
// number, bad cell path) is skipped rather than failing the whole walk —
// this mirrors spec §4.6's lenient tree-traversal recovery.
func (r *Repo) leafToEntry(path []string, hash objects.Hash) (index.Entry, bool, error) {
	if len(path) != 3 {
		return index.Entry{}, false, nil
	}

	workbookID := path[0]
	sheet, err := strconv.Atoi(path[1])
	if err != nil {
		return index.Entry{}, false, nil
	}

	rowLetters, colNumber, err := cell.SplitCellPath(path[2])
	if err != nil {
		return index.Entry{}, false, nil
	}

	_, payload, err := r.objects.Get(hash)
	if err != nil {
		return index.Entry{}, false, wrapNotFound(err)
	}

	return index.Entry{
		WorkbookID:   workbookID,
		Sheet:        sheet,
		RowLetters:   rowLetters,
		ColNumber:    colNumber,
		BlobHash:     hash,
		Timestamp:    r.now(),
		OriginalSize: len(payload),
	}, true, nil
}
