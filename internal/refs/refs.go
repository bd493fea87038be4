// Package refs implements HEAD and branch ref storage: refs/heads/<branch>
// files and the HEAD symbolic-or-detached pointer (spec §3, §4.3).
package refs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// ErrNotFound is returned when a branch ref does not exist.
var ErrNotFound = errors.New("ref not found")

const headRefPrefix = "ref: "

// Store manages the refs/heads/ directory and HEAD file under a ".VCS" root,
// grounded on KDT2006-mygit/refs.go's getHEAD/getRef/updateRef.
type Store struct {
	root string // ".VCS" directory
}

// NewStore returns a Store rooted at vcsRoot (the ".VCS" directory).
func NewStore(vcsRoot string) *Store {
	return &Store{root: vcsRoot}
}

func (s *Store) headPath() string           { return filepath.Join(s.root, "HEAD") }
func (s *Store) branchPath(name string) string {
	return filepath.Join(s.root, "refs", "heads", name)
}

// Init creates refs/heads/ and an attached HEAD pointing at the given
// default branch, if HEAD does not already exist.
func (s *Store) Init(defaultBranch string) error {
	if err := os.MkdirAll(filepath.Join(s.root, "refs", "heads"), 0o755); err != nil {
		return fmt.Errorf("init refs: %w", err)
	}

	if _, err := os.Stat(s.headPath()); err == nil {
		return nil
	}

	return os.WriteFile(s.headPath(), []byte(headRefPrefix+"refs/heads/"+defaultBranch+"\n"), 0o644)
}

// ReadHead returns the raw contents of HEAD, trimmed: either
// "ref: refs/heads/<name>" (attached) or a 40-hex commit hash (detached).
func (s *Store) ReadHead() (string, error) {
	data, err := os.ReadFile(s.headPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: HEAD", ErrNotFound)
		}
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsAttached reports whether HEAD is a symbolic ref, and if so, which
// branch it names.
func (s *Store) IsAttached() (branch string, attached bool, err error) {
	head, err := s.ReadHead()
	if err != nil {
		return "", false, err
	}

	if after, ok := strings.CutPrefix(head, headRefPrefix); ok {
		return filepath.Base(strings.TrimSpace(after)), true, nil
	}
	return "", false, nil
}

// HeadCommit resolves HEAD (attached or detached) down to a commit hash.
// It returns objects.ZeroHash, false, nil if there are no commits yet.
func (s *Store) HeadCommit() (objects.Hash, bool, error) {
	branch, attached, err := s.IsAttached()
	if err != nil {
		return objects.ZeroHash, false, err
	}

	if attached {
		hash, ok, err := s.ReadBranch(branch)
		if errors.Is(err, ErrNotFound) {
			// The attached branch has no ref file until its first commit.
			return objects.ZeroHash, false, nil
		}
		return hash, ok, err
	}

	head, err := s.ReadHead()
	if err != nil {
		return objects.ZeroHash, false, err
	}

	hash, err := objects.ParseHash(head)
	if err != nil {
		return objects.ZeroHash, false, fmt.Errorf("detached HEAD: %w", err)
	}
	return hash, true, nil
}

// ReadBranch reads the commit hash a branch ref points to. An empty (but
// existing) ref file, or one holding the zero hash, means the branch has no
// commits yet — ok is false.
func (s *Store) ReadBranch(name string) (objects.Hash, bool, error) {
	data, err := os.ReadFile(s.branchPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return objects.ZeroHash, false, fmt.Errorf("%w: branch %q", ErrNotFound, name)
		}
		return objects.ZeroHash, false, fmt.Errorf("read branch %q: %w", name, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return objects.ZeroHash, false, nil
	}

	hash, err := objects.ParseHash(trimmed)
	if err != nil {
		return objects.ZeroHash, false, fmt.Errorf("branch %q: %w", name, err)
	}
	if hash.IsZero() {
		return objects.ZeroHash, false, nil
	}
	return hash, true, nil
}

// WriteBranch creates or advances a branch ref to point at hash.
func (s *Store) WriteBranch(name string, hash objects.Hash) error {
	if err := os.MkdirAll(filepath.Dir(s.branchPath(name)), 0o755); err != nil {
		return fmt.Errorf("write branch %q: %w", name, err)
	}
	return os.WriteFile(s.branchPath(name), []byte(hash.String()+"\n"), 0o644)
}

// AdvanceHead writes hash to wherever HEAD currently points: the current
// branch file if attached, or HEAD itself if detached (spec §4.5 "Ref
// advance").
func (s *Store) AdvanceHead(hash objects.Hash) error {
	branch, attached, err := s.IsAttached()
	if err != nil {
		return err
	}

	if attached {
		return s.WriteBranch(branch, hash)
	}
	return os.WriteFile(s.headPath(), []byte(hash.String()+"\n"), 0o644)
}

// Detach points HEAD directly at hash, leaving the current branch ref
// untouched.
func (s *Store) Detach(hash objects.Hash) error {
	return os.WriteFile(s.headPath(), []byte(hash.String()+"\n"), 0o644)
}

// Attach points HEAD at the named branch (a symbolic ref).
func (s *Store) Attach(name string) error {
	return os.WriteFile(s.headPath(), []byte(headRefPrefix+"refs/heads/"+name+"\n"), 0o644)
}

// Branches lists all branch names under refs/heads/.
func (s *Store) Branches() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "refs", "heads"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// CreateBranch creates a new branch ref at the given commit hash.
func (s *Store) CreateBranch(name string, hash objects.Hash) error {
	return s.WriteBranch(name, hash)
}
