package workbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cellvcs/cellvcs/internal/cell"
)

// FileStore is a JSON-file-backed Store, used by the CLI (a single process
// invocation per command, so state must persist between runs) and by
// internal/watch's demo wiring. Production deployments are expected to
// supply their own Store backed by the real spreadsheet engine (spec §1);
// this one exists only so the CLI has somewhere to read from and write to.
type FileStore struct {
	mu    sync.Mutex
	path  string
	cells map[string]map[int]map[string]string
}

// OpenFileStore loads path if it exists, or starts empty if it does not.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, cells: map[string]map[int]map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("workbook file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &fs.cells); err != nil {
		return nil, fmt.Errorf("workbook file %s: %w", path, err)
	}
	return fs, nil
}

func (f *FileStore) ReadCell(workbookID string, sheet int, rowLetters string, col int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := cell.Address{RowLetters: rowLetters, ColNumber: col}.Path()
	sheets, ok := f.cells[workbookID]
	if !ok {
		return "", nil
	}
	cells, ok := sheets[sheet]
	if !ok {
		return "", nil
	}
	return cells[path], nil
}

func (f *FileStore) WriteCell(workbookID string, sheet int, rowLetters string, col int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.cells[workbookID]; !ok {
		f.cells[workbookID] = map[int]map[string]string{}
	}
	if _, ok := f.cells[workbookID][sheet]; !ok {
		f.cells[workbookID][sheet] = map[string]string{}
	}

	path := cell.Address{RowLetters: rowLetters, ColNumber: col}.Path()
	f.cells[workbookID][sheet][path] = value

	return f.saveLocked()
}

func (f *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(f.cells, "", "  ")
	if err != nil {
		return fmt.Errorf("workbook file %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("workbook file %s: %w", f.path, err)
	}
	return os.WriteFile(f.path, data, 0o644)
}
