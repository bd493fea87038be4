package cellvcs

import (
	"fmt"
	"log"
	"sort"

	"github.com/cellvcs/cellvcs/internal/index"
	"github.com/cellvcs/cellvcs/internal/objects"
)

// HardResetResult reports the outcome of a hard reset (spec §4.6).
type HardResetResult struct {
	TargetHash   string
	EntryCount   int
	FailedWrites int
}

// HardReset validates target, clears the index, writes every cell of
// target's tree back into the workbook store (logging and skipping
// individual failures rather than aborting, spec §7), refills the index
// with fresh entries carrying the same blob hashes, and moves the current
// branch ref to target.
func (r *Repo) HardReset(target string) (HardResetResult, error) {
	targetHash, err := objects.ParseHash(target)
	if err != nil {
		return HardResetResult{}, err
	}

	treeHash, err := r.commitTreeHash(targetHash)
	if err != nil {
		return HardResetResult{}, err
	}

	entries, err := r.entriesFromTree(treeHash)
	if err != nil {
		return HardResetResult{}, err
	}

	if err := r.idx.Clear(); err != nil {
		return HardResetResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	failed := 0
	for _, e := range entries {
		_, payload, getErr := r.objects.Get(e.BlobHash)
		if getErr != nil {
			log.Printf("cellvcs: hard reset: skipping %s: %v", e.Key(), getErr)
			failed++
			continue
		}
		if err := r.workbook.WriteCell(e.WorkbookID, e.Sheet, e.RowLetters, e.ColNumber, string(payload)); err != nil {
			log.Printf("cellvcs: hard reset: write_cell failed for %s: %v", e.Key(), err)
			failed++
		}
	}

	if err := r.idx.ReplaceAll(entries); err != nil {
		return HardResetResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	if err := r.refs.AdvanceHead(targetHash); err != nil {
		return HardResetResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return HardResetResult{TargetHash: targetHash.String(), EntryCount: len(entries), FailedWrites: failed}, nil
}

// SoftResetResult reports the touched-path diff a soft reset produced
// (informational only — index and workbook store are left untouched).
type SoftResetResult struct {
	TargetHash   string
	ChangedPaths []string
}

// SoftReset validates target, then only moves the current branch ref to it.
// The index and workbook store are untouched; the set of paths that would
// change is reported for information (spec §4.6).
func (r *Repo) SoftReset(target string) (SoftResetResult, error) {
	targetHash, err := objects.ParseHash(target)
	if err != nil {
		return SoftResetResult{}, err
	}

	targetTree, err := r.commitTreeHash(targetHash)
	if err != nil {
		return SoftResetResult{}, err
	}

	changed, err := r.diffTreePaths(targetTree)
	if err != nil {
		return SoftResetResult{}, err
	}

	if err := r.refs.AdvanceHead(targetHash); err != nil {
		return SoftResetResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return SoftResetResult{TargetHash: targetHash.String(), ChangedPaths: changed}, nil
}

// commitTreeHash validates that hash names a real commit and returns its
// tree hash.
func (r *Repo) commitTreeHash(hash objects.Hash) (objects.Hash, error) {
	c, err := r.readCommit(hash)
	if err != nil {
		return objects.ZeroHash, err
	}
	return c.Tree, nil
}

// diffTreePaths reports the union of keys present in either the current
// HEAD's tree or targetTree whose blob hash differs (or is only present on
// one side) — used by SoftReset and PreviewRollback (spec §4.6).
func (r *Repo) diffTreePaths(targetTree objects.Hash) ([]string, error) {
	headHash, ok, err := r.refs.HeadCommit()
	if err != nil {
		return nil, wrapNotFound(err)
	}

	var headEntries []index.Entry
	if ok {
		c, err := r.readCommit(headHash)
		if err != nil {
			return nil, err
		}
		headEntries, err = r.entriesFromTree(c.Tree)
		if err != nil {
			return nil, err
		}
	}

	targetEntries, err := r.entriesFromTree(targetTree)
	if err != nil {
		return nil, err
	}

	return unionChangedKeys(headEntries, targetEntries), nil
}

// unionChangedKeys returns the sorted set of index keys whose blob hash
// differs between a and b, including keys present on only one side.
func unionChangedKeys(a, b []index.Entry) []string {
	byKeyA := make(map[string]objects.Hash, len(a))
	for _, e := range a {
		byKeyA[e.Key()] = e.BlobHash
	}
	byKeyB := make(map[string]objects.Hash, len(b))
	for _, e := range b {
		byKeyB[e.Key()] = e.BlobHash
	}

	changed := map[string]struct{}{}
	for k, h := range byKeyA {
		if other, ok := byKeyB[k]; !ok || other != h {
			changed[k] = struct{}{}
		}
	}
	for k, h := range byKeyB {
		if other, ok := byKeyA[k]; !ok || other != h {
			changed[k] = struct{}{}
		}
	}

	out := make([]string, 0, len(changed))
	for k := range changed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
