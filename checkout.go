package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// Checkout points HEAD at ref: a branch name, if one exists by that name,
// or a commit hash otherwise (detaching HEAD). It does not touch the
// staging index or the workbook store — spec.md's core models rollback via
// hard_reset/soft_reset, not a working-tree checkout; this is the minimal
// ref-movement primitive the CLI's "checkout" command needs to switch
// between branches and inspect history at a detached commit.
func (r *Repo) Checkout(ref string) error {
	branches, err := r.refs.Branches()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	for _, name := range branches {
		if name == ref {
			if err := r.refs.Attach(name); err != nil {
				return fmt.Errorf("%w: %v", ErrIoFailure, err)
			}
			return nil
		}
	}

	hash, err := objects.ParseHash(ref)
	if err != nil {
		return fmt.Errorf("%w: %q is neither a known branch nor a commit hash", ErrInvalidInput, ref)
	}
	if !r.objects.Exists(hash) {
		return fmt.Errorf("%w: commit %s", ErrNotFound, hash)
	}

	if err := r.refs.Detach(hash); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}
