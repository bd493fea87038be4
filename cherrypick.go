package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// CherryPick creates a new commit that replays commitHash C's entire tree
// snapshot on top of the current HEAD (spec §4.6). It fails with
// ErrNotFound if C has no parent (a root commit has nothing to "reapply"
// incrementally, matching the source's restriction).
func (r *Repo) CherryPick(commitHash, author, email string) (CommitResult, error) {
	hash, err := objects.ParseHash(commitHash)
	if err != nil {
		return CommitResult{}, err
	}

	c, err := r.readCommit(hash)
	if err != nil {
		return CommitResult{}, err
	}
	if !c.HasParent {
		return CommitResult{}, fmt.Errorf("%w: commit %s has no parent to cherry-pick from", ErrNotFound, hash)
	}

	entries, err := r.entriesFromTree(c.Tree)
	if err != nil {
		return CommitResult{}, err
	}

	if err := r.idx.Clear(); err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	for _, e := range entries {
		if err := r.stageEntry(e); err != nil {
			return CommitResult{}, err
		}
	}

	message := fmt.Sprintf("%s\n\n(cherry picked from commit %s)", c.Message, hash)
	return r.Commit(message, author, email)
}
