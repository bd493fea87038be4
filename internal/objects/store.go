package objects

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when an object hash is not present in the store.
var ErrNotFound = errors.New("object not found")

// Store is the on-disk, content-addressed object store. Objects live under
// <root>/objects/<hh>/<rest>, where hh is the first two hex digits of the
// hash and rest is the remaining 38 — grounded on KDT2006-mygit/object.go's
// createObject/writeTreeObject/writeCommitObject fanout layout.
type Store struct {
	root string
}

// NewStore returns a Store rooted at <vcsRoot>/objects. vcsRoot is the
// ".VCS" directory, not the repository working directory.
func NewStore(vcsRoot string) *Store {
	return &Store{root: filepath.Join(vcsRoot, "objects")}
}

func (s *Store) path(h Hash) string {
	hex := h.String()
	return filepath.Join(s.root, hex[:2], hex[2:])
}

// Put frames, hashes, and zlib-compresses payload, writing it to the
// derived fanout path iff that path does not already exist. Writing an
// existing hash is a no-op (spec invariant 2).
func (s *Store) Put(typ string, payload []byte) (Hash, error) {
	framed, hash, err := FrameAndHash(typ, payload)
	if err != nil {
		return hash, err
	}

	path := s.path(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	} else if !os.IsNotExist(err) {
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}

	compressed, err := Deflate(framed)
	if err != nil {
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}

	// Objects are content-addressed and write-once: write to a sibling temp
	// file and rename over the final path so a concurrent reader never
	// observes a truncated object (spec §5, point 2).
	tmp, err := os.CreateTemp(filepath.Dir(path), "obj-*.tmp")
	if err != nil {
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed away

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		// Another writer may have raced us to the same content-addressed
		// path; that is indistinguishable from success.
		if _, statErr := os.Stat(path); statErr == nil {
			return hash, nil
		}
		return hash, fmt.Errorf("put %s: %w", hash, err)
	}

	return hash, nil
}

// Get reads and inflates an object, returning its type token and payload.
func (s *Store) Get(hash Hash) (typ string, payload []byte, err error) {
	path := s.path(hash)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return "", nil, fmt.Errorf("get %s: %w", hash, err)
	}

	data, err := Inflate(raw)
	if err != nil {
		return "", nil, fmt.Errorf("get %s: %w", hash, err)
	}

	nul := indexByte(data, 0)
	if nul == -1 {
		return "", nil, fmt.Errorf("%w: object %s has no header terminator", ErrCorruptObject, hash)
	}

	var length int
	if _, scanErr := fmt.Sscanf(string(data[:nul]), "%s %d", &typ, &length); scanErr != nil {
		return "", nil, fmt.Errorf("%w: object %s has malformed header %q", ErrCorruptObject, hash, data[:nul])
	}

	body := data[nul+1:]
	if length != len(body) {
		return "", nil, fmt.Errorf("%w: object %s declares length %d but has %d bytes", ErrCorruptObject, hash, length, len(body))
	}

	return typ, body, nil
}

// Exists reports whether hash is present in the store.
func (s *Store) Exists(hash Hash) bool {
	_, err := os.Stat(s.path(hash))
	return err == nil
}

// CompressedSize reports the on-disk (zlib-compressed, framed) size of an
// object, for staging stats (spec §4.4 "stats()").
func (s *Store) CompressedSize(hash Hash) (int, error) {
	info, err := os.Stat(s.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return 0, fmt.Errorf("compressed size %s: %w", hash, err)
	}
	return int(info.Size()), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
