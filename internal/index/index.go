// Package index implements the staging index: a durable, atomic map of
// pending cell changes (spec §4.4), grounded on
// KDT2006-mygit/index.go's readIndex/updateIndex/writeIndex load-modify-save
// shape, upgraded to a closed-record JSON schema per spec DESIGN NOTES §9.
package index

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cellvcs/cellvcs/internal/objects"
)

// Outcome reports what Stage did for a given key.
type Outcome int

const (
	Unchanged Outcome = iota
	Added
	Updated
)

// Entry is one staged cell change (spec §3 "Index entry").
type Entry struct {
	WorkbookID     string       `json:"workbook_id"`
	Sheet          int          `json:"sheet_number"`
	RowLetters     string       `json:"row_letters"`
	ColNumber      int          `json:"col_number"`
	BlobHash       objects.Hash `json:"blob_hash"`
	Timestamp      int64        `json:"timestamp"`
	OriginalSize   int          `json:"original_size"`
	CompressedSize int          `json:"compressed_size"`
}

// Key returns the canonical "<workbook>:<sheet>:<ROW_LETTERS>:<col>" lookup
// key for this entry (spec §4.4).
func (e Entry) Key() string {
	return key(e.WorkbookID, e.Sheet, e.RowLetters, e.ColNumber)
}

func key(workbookID string, sheet int, rowLetters string, col int) string {
	return fmt.Sprintf("%s:%d:%s:%d", workbookID, sheet, strings.ToUpper(rowLetters), col)
}

// Stats summarizes the staging index (spec §4.4 "stats()").
type Stats struct {
	EntriesPerWorkbook map[string]int
	TotalOriginal      int
	TotalCompressed    int
}

// CompressionRatio returns TotalCompressed/TotalOriginal, or 0 if there is
// no staged content.
func (s Stats) CompressionRatio() float64 {
	if s.TotalOriginal == 0 {
		return 0
	}
	return float64(s.TotalCompressed) / float64(s.TotalOriginal)
}

// Index is the durable staging area at "<vcsRoot>/index". All operations
// take the single process-wide RWMutex for the duration of a load-modify-
// save cycle, per spec §5.
type Index struct {
	path string
	mu   sync.RWMutex

	// NowUnix is overridable for deterministic tests; when nil, timestamps
	// come from time.Now (defaultNowUnix).
	NowUnix func() int64
}

// New returns an Index backed by "<vcsRoot>/index".
func New(vcsRoot string) *Index {
	return &Index{path: filepath.Join(vcsRoot, "index")}
}

func (idx *Index) timestamp() int64 {
	if idx.NowUnix != nil {
		return idx.NowUnix()
	}
	return defaultNowUnix()
}

// load reads the index file into a map keyed by Entry.Key(). A missing,
// empty, or unparseable file is treated as an empty index (lenient
// recovery, spec §4.4/§7); parse failures are logged, not returned.
func (idx *Index) load() map[string]Entry {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		return map[string]Entry{}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]Entry{}
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("index: corrupt index file %s treated as empty: %v", idx.path, err)
		return map[string]Entry{}
	}
	if entries == nil {
		entries = map[string]Entry{}
	}
	return entries
}

// save serializes entries and writes them atomically (temp file + rename).
func (idx *Index) save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}

	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if err := os.Rename(tmpName, idx.path); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

// Stage records a staged cell change. blobHash is the hash of the content
// already written to the object store by the caller (spec §4.4 step 1-2
// happen in the commit engine, which owns the object Store; Stage itself
// only owns the index half of the cycle). If an entry already exists for
// this key with the same blob hash, Stage is a no-op and reports
// Unchanged (spec invariant 4).
func (idx *Index) Stage(workbookID string, sheet int, rowLetters string, col int, blobHash objects.Hash, originalSize, compressedSize int) (Outcome, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entries := idx.load()
	k := key(workbookID, sheet, rowLetters, col)

	outcome := Added
	if existing, ok := entries[k]; ok {
		if existing.BlobHash == blobHash {
			return Unchanged, nil
		}
		outcome = Updated
	}

	entries[k] = Entry{
		WorkbookID:     workbookID,
		Sheet:          sheet,
		RowLetters:     strings.ToUpper(rowLetters),
		ColNumber:      col,
		BlobHash:       blobHash,
		Timestamp:      idx.timestamp(),
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
	}

	if err := idx.save(entries); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Unstage removes the entry for key k, reporting whether it was present.
func (idx *Index) Unstage(k string) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entries := idx.load()
	if _, ok := entries[k]; !ok {
		return false, nil
	}
	delete(entries, k)

	if err := idx.save(entries); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all staged entries, sorted by ascending timestamp.
func (idx *Index) List() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := idx.load()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// ListForWorkbook returns staged entries for a given workbook, sorted
// lexicographically by key.
func (idx *Index) ListForWorkbook(workbookID string) []Entry {
	return idx.filterSorted(func(e Entry) bool { return e.WorkbookID == workbookID })
}

// ListForSheet returns staged entries for a given workbook and sheet,
// sorted lexicographically by key.
func (idx *Index) ListForSheet(workbookID string, sheet int) []Entry {
	return idx.filterSorted(func(e Entry) bool { return e.WorkbookID == workbookID && e.Sheet == sheet })
}

func (idx *Index) filterSorted(pred func(Entry) bool) []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := idx.load()
	var out []Entry
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Clear replaces the index with an empty map.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.save(map[string]Entry{})
}

// Len reports how many entries are currently staged.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.load())
}

// ComputeStats returns per-workbook counts and size totals across all
// staged entries (spec §4.4 "stats()").
func (idx *Index) ComputeStats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := idx.load()
	st := Stats{EntriesPerWorkbook: map[string]int{}}
	for _, e := range entries {
		st.EntriesPerWorkbook[e.WorkbookID]++
		st.TotalOriginal += e.OriginalSize
		st.TotalCompressed += e.CompressedSize
	}
	return st
}

// ReplaceAll atomically replaces the entire index contents with entries,
// keyed by each entry's Key(). Used by hard reset to materialize a tree's
// contents into the index (spec §4.6).
func (idx *Index) ReplaceAll(entries []Entry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Key()] = e
	}
	return idx.save(m)
}
