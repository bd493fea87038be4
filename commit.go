package cellvcs

import (
	"fmt"
	"strings"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// CommitResult describes a commit just recorded (spec §4.5).
type CommitResult struct {
	Hash        string
	TreeHash    string
	ParentHash  string // "" for a root commit
	Branch      string // "" if HEAD was detached at commit time
	Message     string
	EntryCount  int
	TimestampAt int64
}

// Commit materializes every staged entry into a tree, writes a commit
// object pointing at it and the current HEAD as parent, advances HEAD
// (whichever ref it currently resolves to), and clears the staging index —
// the sequence of spec §4.5 "commit(message, author, email)".
//
// It fails with ErrEmpty if nothing is staged, and ErrInvalidInput if
// message, author, or email are malformed.
func (r *Repo) Commit(message, author, email string) (CommitResult, error) {
	if strings.TrimSpace(message) == "" {
		return CommitResult{}, fmt.Errorf("%w: commit message is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(author) == "" {
		return CommitResult{}, fmt.Errorf("%w: author name is empty", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return CommitResult{}, fmt.Errorf("%w: author email %q is malformed", ErrInvalidInput, email)
	}

	entries := r.idx.List()
	if len(entries) == 0 {
		return CommitResult{}, fmt.Errorf("%w: nothing staged", ErrEmpty)
	}

	treeHash, err := r.buildTree(entries)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	parentHash, hasParent, err := r.refs.HeadCommit()
	if err != nil {
		return CommitResult{}, wrapNotFound(err)
	}

	now := r.now()
	identity := fmt.Sprintf("%s <%s> %d +0000", author, email, now)

	commitHash, err := r.objects.Put("commit", objects.EncodeCommit(objects.Commit{
		Tree:      treeHash,
		Parent:    parentHash,
		HasParent: hasParent,
		Author:    identity,
		Committer: identity,
		Message:   message,
	}))
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	if err := r.refs.AdvanceHead(commitHash); err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	if err := r.idx.Clear(); err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	branch, attached, err := r.refs.IsAttached()
	if err != nil {
		return CommitResult{}, wrapNotFound(err)
	}
	if !attached {
		branch = ""
	}

	result := CommitResult{
		Hash:        commitHash.String(),
		TreeHash:    treeHash.String(),
		Branch:      branch,
		Message:     message,
		EntryCount:  len(entries),
		TimestampAt: now,
	}
	if hasParent {
		result.ParentHash = parentHash.String()
	}
	return result, nil
}
