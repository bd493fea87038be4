// Package cellvcs is the cell-granular, content-addressed version control
// core for spreadsheet workbooks (spec.md §1-§2). It exposes a pure
// functional API — Repo — that an HTTP surface, CLI, or any other
// transport can wrap; this package itself never does I/O beyond the
// ".VCS" directory and the workbook.Store it is given.
package cellvcs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cellvcs/cellvcs/internal/index"
	"github.com/cellvcs/cellvcs/internal/objects"
	"github.com/cellvcs/cellvcs/internal/refs"
	"github.com/cellvcs/cellvcs/internal/vcsconfig"
	"github.com/cellvcs/cellvcs/internal/workbook"
)

// VCSDirName is the directory name this module stores all of its state
// under, relative to a repository root (spec §6).
const VCSDirName = ".VCS"

// DefaultBranch is the branch Init attaches HEAD to.
const DefaultBranch = "main"

// Repo is the façade over the object store, staging index, refs, and
// config that together implement spec.md's core. It holds no workbook
// state of its own — every cell read or write goes through the Workbook
// collaborator supplied at construction time (spec §1).
type Repo struct {
	root     string
	vcsDir   string
	objects  *objects.Store
	idx      *index.Index
	refs     *refs.Store
	cfg      *vcsconfig.Store
	workbook workbook.Store

	// nowUnix is overridable for deterministic tests.
	nowUnix func() int64
}

// Init creates a fresh ".VCS" directory under root and returns a Repo
// backed by it. It fails if root already contains a ".VCS" directory.
func Init(root string, wb workbook.Store) (*Repo, error) {
	vcsDir := filepath.Join(root, VCSDirName)

	if _, err := os.Stat(vcsDir); err == nil {
		return nil, fmt.Errorf("%w: %s already exists", ErrInvalidInput, vcsDir)
	}

	if err := os.MkdirAll(vcsDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	r := newRepo(root, wb)

	if err := r.refs.Init(DefaultBranch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return r, nil
}

// Open returns a Repo for an existing ".VCS" directory under root. It
// fails with ErrNotFound if root has not been initialized.
func Open(root string, wb workbook.Store) (*Repo, error) {
	vcsDir := filepath.Join(root, VCSDirName)

	if _, err := os.Stat(vcsDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no %s directory under %s", ErrNotFound, VCSDirName, root)
		}
		return nil, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return newRepo(root, wb), nil
}

func newRepo(root string, wb workbook.Store) *Repo {
	vcsDir := filepath.Join(root, VCSDirName)
	return &Repo{
		root:     root,
		vcsDir:   vcsDir,
		objects:  objects.NewStore(vcsDir),
		idx:      index.New(vcsDir),
		refs:     refs.NewStore(vcsDir),
		cfg:      vcsconfig.NewStore(vcsDir),
		workbook: wb,
	}
}

// Config exposes the repository's author config store (user.name /
// user.email), consumed directly by the CLI's "config" command.
func (r *Repo) Config() *vcsconfig.Store { return r.cfg }

// CurrentBranch returns the name of the branch HEAD is attached to. It
// fails with ErrInvalidInput if HEAD is currently detached — Status reports
// the detached state without failing.
func (r *Repo) CurrentBranch() (string, error) {
	branch, attached, err := r.refs.IsAttached()
	if err != nil {
		return "", wrapNotFound(err)
	}
	if !attached {
		return "", fmt.Errorf("%w: HEAD is detached", ErrInvalidInput)
	}
	return branch, nil
}

// Branches lists all known branch names.
func (r *Repo) Branches() ([]string, error) {
	names, err := r.refs.Branches()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return names, nil
}

// CreateBranch creates a new branch at the current HEAD commit. It fails
// with ErrEmpty if there are no commits yet.
func (r *Repo) CreateBranch(name string) error {
	head, ok, err := r.refs.HeadCommit()
	if err != nil {
		return wrapNotFound(err)
	}
	if !ok {
		return fmt.Errorf("%w: no commits yet", ErrEmpty)
	}
	if err := r.refs.CreateBranch(name, head); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}

func (r *Repo) now() int64 {
	if r.nowUnix != nil {
		return r.nowUnix()
	}
	return defaultNowUnix()
}

func wrapNotFound(err error) error {
	switch {
	case errors.Is(err, objects.ErrNotFound), errors.Is(err, refs.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ErrCorruptObject), errors.Is(err, ErrCorruptCommit), errors.Is(err, ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrIoFailure, err)
	}
}
