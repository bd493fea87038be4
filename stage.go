package cellvcs

import (
	"fmt"

	"github.com/cellvcs/cellvcs/internal/cell"
	"github.com/cellvcs/cellvcs/internal/index"
)

// StageOutcome reports what Stage did for a given cell.
type StageOutcome int

const (
	StageUnchanged StageOutcome = iota
	StageAdded
	StageUpdated
)

func (o StageOutcome) String() string {
	switch o {
	case StageAdded:
		return "added"
	case StageUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// StageResult describes the effect of a single Stage call.
type StageResult struct {
	Key            string
	BlobHash       string
	Outcome        StageOutcome
	OriginalSize   int
	CompressedSize int
}

// Stage reads the current value of the given cell from the repo's
// workbook.Store, writes it to the object store as a blob, and records it
// in the staging index (spec §4.4 "stage(cell)"). Staging the same content
// twice is a no-op (StageUnchanged, spec invariant 4).
func (r *Repo) Stage(workbookID string, sheet int, rowLetters string, col int) (StageResult, error) {
	addr := cell.Address{WorkbookID: workbookID, Sheet: sheet, RowLetters: rowLetters, ColNumber: col}
	if err := addr.Validate(); err != nil {
		return StageResult{}, err
	}

	value, err := r.workbook.ReadCell(workbookID, sheet, addr.RowLetters, col)
	if err != nil {
		return StageResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	payload := []byte(value)
	blobHash, err := r.objects.Put("blob", payload)
	if err != nil {
		return StageResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	compressed, err := r.objects.CompressedSize(blobHash)
	if err != nil {
		compressed = 0
	}

	outcome, err := r.idx.Stage(workbookID, sheet, addr.RowLetters, col, blobHash, len(payload), compressed)
	if err != nil {
		return StageResult{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return StageResult{
		Key:            index.Entry{WorkbookID: workbookID, Sheet: sheet, RowLetters: addr.RowLetters, ColNumber: col}.Key(),
		BlobHash:       blobHash.String(),
		Outcome:        stageOutcomeFrom(outcome),
		OriginalSize:   len(payload),
		CompressedSize: compressed,
	}, nil
}

func stageOutcomeFrom(o index.Outcome) StageOutcome {
	switch o {
	case index.Added:
		return StageAdded
	case index.Updated:
		return StageUpdated
	default:
		return StageUnchanged
	}
}
