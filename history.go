package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// CommitInfo is one entry in a commit history listing (spec §4.6 "log").
type CommitInfo struct {
	Hash       string
	TreeHash   string
	ParentHash string // "" for a root commit
	Author     string
	Committer  string
	Message    string
}

// readCommit fetches and decodes a commit object, wrapping not-found and
// corruption errors with this package's sentinels.
func (r *Repo) readCommit(hash objects.Hash) (objects.Commit, error) {
	typ, payload, err := r.objects.Get(hash)
	if err != nil {
		return objects.Commit{}, wrapNotFound(err)
	}
	if typ != "commit" {
		return objects.Commit{}, fmt.Errorf("%w: object %s is not a commit", ErrCorruptObject, hash)
	}

	c, err := objects.DecodeCommit(payload)
	if err != nil {
		return objects.Commit{}, err
	}
	return c, nil
}

func commitInfo(hash objects.Hash, c objects.Commit) CommitInfo {
	info := CommitInfo{
		Hash:      hash.String(),
		TreeHash:  c.Tree.String(),
		Author:    c.Author,
		Committer: c.Committer,
		Message:   c.Message,
	}
	if c.HasParent {
		info.ParentHash = c.Parent.String()
	}
	return info
}

// MaxHistoryLimit is the upper bound of history's limit argument (spec
// §4.6 "history(limit:int ∈ [1,100])").
const MaxHistoryLimit = 100

// History walks the commit chain starting at HEAD, most recent first,
// stopping after limit commits. limit must be in [1, MaxHistoryLimit] —
// grounded on KDT2006-mygit/refs.go's traverseCommitHistory.
func (r *Repo) History(limit int) ([]CommitInfo, error) {
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d], got %d", ErrInvalidInput, MaxHistoryLimit, limit)
	}

	head, ok, err := r.refs.HeadCommit()
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if !ok {
		return nil, nil
	}

	var out []CommitInfo
	cur := head
	for {
		if len(out) >= limit {
			break
		}

		c, err := r.readCommit(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, commitInfo(cur, c))

		if !c.HasParent {
			break
		}
		cur = c.Parent
	}
	return out, nil
}
