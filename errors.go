package cellvcs

import (
	"errors"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// The error taxonomy of spec §7. Every error this module returns wraps
// exactly one of these sentinels; callers should use errors.Is against
// them rather than matching strings.
var (
	// ErrInvalidInput covers bad hash formats, empty message/author, a
	// missing "@" in an email, bad row letters/column numbers, and unknown
	// rollback kinds. Shared with internal/objects and internal/cell so a
	// single errors.Is check works regardless of which layer raised it.
	ErrInvalidInput = objects.ErrInvalidInput

	// ErrNotFound covers a missing object, commit, branch, or ref.
	ErrNotFound = errors.New("not found")

	// ErrEmpty is returned by Commit, Revert, and CherryPick when there is
	// nothing to record.
	ErrEmpty = errors.New("nothing to commit")

	// ErrCorruptObject covers malformed object framing.
	ErrCorruptObject = objects.ErrCorruptObject

	// ErrCorruptCommit covers a commit payload missing its mandatory tree
	// line.
	ErrCorruptCommit = objects.ErrCorruptCommit

	// ErrIoFailure wraps any underlying filesystem error.
	ErrIoFailure = errors.New("io failure")
)
