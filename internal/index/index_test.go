package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellvcs/cellvcs/internal/objects"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := New(t.TempDir())
	tick := int64(1000)
	idx.NowUnix = func() int64 { tick++; return tick }
	return idx
}

func TestStageAddsEntry(t *testing.T) {
	idx := newTestIndex(t)
	_, hash, _ := objects.FrameAndHash("blob", []byte("Hello"))

	outcome, err := idx.Stage("wb1", 1, "a", 1, hash, 5, 13)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	entries := idx.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].RowLetters, "row letters must be uppercased")
	assert.Equal(t, hash, entries[0].BlobHash)
}

func TestStageSameValueIsUnchanged(t *testing.T) {
	idx := newTestIndex(t)
	_, hash, _ := objects.FrameAndHash("blob", []byte("Hello"))

	_, err := idx.Stage("wb1", 1, "A", 1, hash, 5, 13)
	require.NoError(t, err)

	outcome, err := idx.Stage("wb1", 1, "A", 1, hash, 5, 13)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Len(t, idx.List(), 1)
}

func TestStageChangedValueIsUpdated(t *testing.T) {
	idx := newTestIndex(t)
	_, hash1, _ := objects.FrameAndHash("blob", []byte("Hello"))
	_, hash2, _ := objects.FrameAndHash("blob", []byte("World"))

	_, err := idx.Stage("wb1", 1, "A", 1, hash1, 5, 13)
	require.NoError(t, err)

	outcome, err := idx.Stage("wb1", 1, "A", 1, hash2, 5, 13)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	entries := idx.List()
	require.Len(t, entries, 1)
	assert.Equal(t, hash2, entries[0].BlobHash)
}

func TestStageAtMostOneEntryPerKey(t *testing.T) {
	idx := newTestIndex(t)
	_, hash1, _ := objects.FrameAndHash("blob", []byte("v1"))
	_, hash2, _ := objects.FrameAndHash("blob", []byte("v2"))

	_, err := idx.Stage("wb1", 1, "A", 1, hash1, 2, 2)
	require.NoError(t, err)
	_, err = idx.Stage("wb1", 1, "a", 1, hash2, 2, 2) // lowercase, same key
	require.NoError(t, err)

	assert.Len(t, idx.List(), 1)
}

func TestUnstage(t *testing.T) {
	idx := newTestIndex(t)
	_, hash, _ := objects.FrameAndHash("blob", []byte("v"))
	_, err := idx.Stage("wb1", 1, "A", 1, hash, 1, 1)
	require.NoError(t, err)

	entry := idx.List()[0]

	removed, err := idx.Unstage(entry.Key())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, idx.List())

	removedAgain, err := idx.Unstage(entry.Key())
	require.NoError(t, err)
	assert.False(t, removedAgain)
}

func TestListSortedByTimestamp(t *testing.T) {
	idx := newTestIndex(t)
	_, h1, _ := objects.FrameAndHash("blob", []byte("1"))
	_, h2, _ := objects.FrameAndHash("blob", []byte("2"))
	_, h3, _ := objects.FrameAndHash("blob", []byte("3"))

	_, _ = idx.Stage("wb1", 1, "C", 1, h1, 1, 1)
	_, _ = idx.Stage("wb1", 1, "A", 1, h2, 1, 1)
	_, _ = idx.Stage("wb1", 1, "B", 1, h3, 1, 1)

	entries := idx.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "C", entries[0].RowLetters)
	assert.Equal(t, "A", entries[1].RowLetters)
	assert.Equal(t, "B", entries[2].RowLetters)
}

func TestListForWorkbookAndSheet(t *testing.T) {
	idx := newTestIndex(t)
	_, h, _ := objects.FrameAndHash("blob", []byte("x"))

	_, _ = idx.Stage("wb1", 1, "A", 1, h, 1, 1)
	_, _ = idx.Stage("wb1", 2, "A", 1, h, 1, 1)
	_, _ = idx.Stage("wb2", 1, "A", 1, h, 1, 1)

	assert.Len(t, idx.ListForWorkbook("wb1"), 2)
	assert.Len(t, idx.ListForSheet("wb1", 1), 1)
	assert.Len(t, idx.ListForWorkbook("wb2"), 1)
}

func TestClear(t *testing.T) {
	idx := newTestIndex(t)
	_, h, _ := objects.FrameAndHash("blob", []byte("x"))
	_, _ = idx.Stage("wb1", 1, "A", 1, h, 1, 1)

	require.NoError(t, idx.Clear())
	assert.Empty(t, idx.List())
}

func TestComputeStats(t *testing.T) {
	idx := newTestIndex(t)
	_, h1, _ := objects.FrameAndHash("blob", []byte("aaaaaaaaaa"))
	_, h2, _ := objects.FrameAndHash("blob", []byte("bb"))

	_, _ = idx.Stage("wb1", 1, "A", 1, h1, 10, 4)
	_, _ = idx.Stage("wb1", 1, "B", 1, h2, 2, 2)
	_, _ = idx.Stage("wb2", 1, "A", 1, h2, 2, 2)

	stats := idx.ComputeStats()
	assert.Equal(t, 2, stats.EntriesPerWorkbook["wb1"])
	assert.Equal(t, 1, stats.EntriesPerWorkbook["wb2"])
	assert.Equal(t, 14, stats.TotalOriginal)
	assert.Equal(t, 8, stats.TotalCompressed)
	assert.InDelta(t, 8.0/14.0, stats.CompressionRatio(), 0.0001)
}

func TestLoadCorruptIndexIsLenient(t *testing.T) {
	dir := t.TempDir()
	idx := New(dir)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index"), []byte("{not valid json"), 0o644))

	assert.Empty(t, idx.List(), "corrupt index should be treated as empty")
}

func TestReplaceAll(t *testing.T) {
	idx := newTestIndex(t)
	_, h, _ := objects.FrameAndHash("blob", []byte("x"))
	_, _ = idx.Stage("wb1", 1, "A", 1, h, 1, 1)

	entries := []Entry{
		{WorkbookID: "wb2", Sheet: 1, RowLetters: "Z", ColNumber: 9, BlobHash: h},
	}
	require.NoError(t, idx.ReplaceAll(entries))

	got := idx.List()
	require.Len(t, got, 1)
	assert.Equal(t, "wb2", got[0].WorkbookID)
}
