package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// RollbackKind identifies which rollback operation a Preview is for
// (spec §4.6 "preview_rollback(target, kind)").
type RollbackKind int

const (
	RollbackHardReset RollbackKind = iota
	RollbackSoftReset
	RollbackRevert
	RollbackCherryPick
)

func (k RollbackKind) String() string {
	switch k {
	case RollbackHardReset:
		return "hard_reset"
	case RollbackSoftReset:
		return "soft_reset"
	case RollbackRevert:
		return "revert"
	case RollbackCherryPick:
		return "cherry_pick"
	default:
		return "unknown"
	}
}

// Destructive reports whether this kind of rollback is flagged destructive:
// hard_reset and revert are; soft_reset and cherry_pick are not. The flag
// does not track workbook writes — cherry_pick also writes the picked cell
// values into the workbook store.
func (k RollbackKind) Destructive() bool {
	return k == RollbackHardReset || k == RollbackRevert
}

// Preview describes the effect of a rollback operation before it runs.
type Preview struct {
	Current      CommitInfo
	Target       CommitInfo
	TouchedPaths []string
	Destructive  bool
}

// PreviewRollback returns both commits' metadata, the union of paths that
// differ between HEAD and target, and whether kind is destructive — it
// performs no mutation (spec §4.6).
func (r *Repo) PreviewRollback(target string, kind RollbackKind) (Preview, error) {
	targetHash, err := objects.ParseHash(target)
	if err != nil {
		return Preview{}, err
	}

	targetCommit, err := r.readCommit(targetHash)
	if err != nil {
		return Preview{}, err
	}

	headHash, ok, err := r.refs.HeadCommit()
	if err != nil {
		return Preview{}, wrapNotFound(err)
	}
	if !ok {
		return Preview{}, fmt.Errorf("%w: no commits yet", ErrEmpty)
	}

	headCommit, err := r.readCommit(headHash)
	if err != nil {
		return Preview{}, err
	}

	touched, err := r.diffTreePaths(targetCommit.Tree)
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		Current:      commitInfo(headHash, headCommit),
		Target:       commitInfo(targetHash, targetCommit),
		TouchedPaths: touched,
		Destructive:  kind.Destructive(),
	}, nil
}
