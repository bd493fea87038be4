package cellvcs

import "github.com/cellvcs/cellvcs/internal/index"

// Status summarizes the repository's current state (spec §4.6).
type Status struct {
	Branch        string // "" if HEAD is detached
	Detached      bool
	HeadCommit    string // "" if there are no commits yet
	StagedCount   int
	StagedEntries []string // index keys, in ascending staging-timestamp order
	Stats         index.Stats
}

// Status reports the current branch/HEAD position and staging state.
func (r *Repo) Status() (Status, error) {
	branch, attached, err := r.refs.IsAttached()
	if err != nil {
		return Status{}, wrapNotFound(err)
	}

	head, hasHead, err := r.refs.HeadCommit()
	if err != nil {
		return Status{}, wrapNotFound(err)
	}

	entries := r.idx.List()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key())
	}

	st := Status{
		Detached:      !attached,
		StagedCount:   len(entries),
		StagedEntries: keys,
		Stats:         r.idx.ComputeStats(),
	}
	if attached {
		st.Branch = branch
	}
	if hasHead {
		st.HeadCommit = head.String()
	}
	return st, nil
}
