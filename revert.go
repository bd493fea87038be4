package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/index"
	"github.com/cellvcs/cellvcs/internal/objects"
)

// Revert creates a new commit whose net effect undoes commitHash C, by
// staging P's (C's parent) version of every cell that changed between P
// and C, then committing (spec §4.6). It fails with ErrNotFound if C has
// no parent, and ErrEmpty if no path produced a stage action (e.g. C only
// added cells — the staging index has no deletion marker, so undoing an
// addition is a no-op; see spec §9 Open Question 3).
func (r *Repo) Revert(commitHash, author, email string) (CommitResult, error) {
	hash, err := objects.ParseHash(commitHash)
	if err != nil {
		return CommitResult{}, err
	}

	c, err := r.readCommit(hash)
	if err != nil {
		return CommitResult{}, err
	}
	if !c.HasParent {
		return CommitResult{}, fmt.Errorf("%w: commit %s has no parent to revert to", ErrNotFound, hash)
	}

	p, err := r.readCommit(c.Parent)
	if err != nil {
		return CommitResult{}, err
	}

	cEntries, err := r.entriesFromTree(c.Tree)
	if err != nil {
		return CommitResult{}, err
	}
	pEntries, err := r.entriesFromTree(p.Tree)
	if err != nil {
		return CommitResult{}, err
	}

	cByKey := entriesByKey(cEntries)
	pByKey := entriesByKey(pEntries)

	if err := r.idx.Clear(); err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	staged := false
	for key := range union(cByKey, pByKey) {
		cEntry, inC := cByKey[key]
		pEntry, inP := pByKey[key]

		switch {
		case inC && inP && cEntry.BlobHash != pEntry.BlobHash:
			// Changed in both: stage P's version, reverting the change.
			if err := r.stageEntry(pEntry); err != nil {
				return CommitResult{}, err
			}
			staged = true
		case inC && inP:
			// Unchanged between P and C: nothing to do.
		case inP && !inC:
			// C removed it: restore P's version.
			if err := r.stageEntry(pEntry); err != nil {
				return CommitResult{}, err
			}
			staged = true
		case inC && !inP:
			// C added it: no deletion marker exists, so this cannot be
			// undone here (spec §9 Open Question 3, documented limitation).
		}
	}

	if !staged {
		return CommitResult{}, fmt.Errorf("%w: revert of %s produced no staged changes", ErrEmpty, hash)
	}

	message := fmt.Sprintf("Revert \"%s\"\n\nThis reverts commit %s.", c.Message, hash)
	return r.Commit(message, author, email)
}

func entriesByKey(entries []index.Entry) map[string]index.Entry {
	m := make(map[string]index.Entry, len(entries))
	for _, e := range entries {
		m[e.Key()] = e
	}
	return m
}

func union(a, b map[string]index.Entry) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// stageEntry writes e's blob hash back into the index and the workbook
// store, reusing the blob already present in the object store — used by
// Revert and CherryPick, which stage historical content rather than the
// workbook's live value.
func (r *Repo) stageEntry(e index.Entry) error {
	_, payload, err := r.objects.Get(e.BlobHash)
	if err != nil {
		return wrapNotFound(err)
	}

	if err := r.workbook.WriteCell(e.WorkbookID, e.Sheet, e.RowLetters, e.ColNumber, string(payload)); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	compressed, err := r.objects.CompressedSize(e.BlobHash)
	if err != nil {
		compressed = 0
	}

	if _, err := r.idx.Stage(e.WorkbookID, e.Sheet, e.RowLetters, e.ColNumber, e.BlobHash, len(payload), compressed); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}
