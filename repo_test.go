package cellvcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellvcs/cellvcs/internal/objects"
	"github.com/cellvcs/cellvcs/internal/workbook"
)

func newTestRepo(t *testing.T) (*Repo, *workbook.MemStore) {
	t.Helper()
	wb := workbook.NewMemStore()
	repo, err := Init(t.TempDir(), wb)
	require.NoError(t, err)

	tick := int64(0)
	repo.nowUnix = func() int64 { tick++; return tick }
	return repo, wb
}

func blobHashOf(t *testing.T, value string) objects.Hash {
	t.Helper()
	_, hash, err := objects.FrameAndHash("blob", []byte(value))
	require.NoError(t, err)
	return hash
}

// TestInitialCommit covers spec §8 scenario 1.
func TestInitialCommit(t *testing.T) {
	repo, wb := newTestRepo(t)

	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))

	staged, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, StageAdded, staged.Outcome)
	assert.Equal(t, blobHashOf(t, "Hello").String(), staged.BlobHash)

	result, err := repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)
	assert.Empty(t, result.ParentHash)

	history, err := repo.History(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.Hash, history[0].Hash)
	assert.Empty(t, history[0].ParentHash)
}

// TestNoOpStage covers spec §8 scenario 2: staging the same value again
// after a commit (which cleared the index) newly stages it as Added,
// since there is no longer a matching entry to compare against.
func TestNoOpStage(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))

	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	staged, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, StageAdded, staged.Outcome)

	status, err := repo.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, status.StagedCount)
}

// TestStageUnchangedWithinSameIndex staging the identical value twice
// before a commit returns Unchanged (spec §8 "boundary behaviors").
func TestStageUnchangedWithinSameIndex(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))

	first, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, StageAdded, first.Outcome)

	second, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, StageUnchanged, second.Outcome)
}

// TestSecondCommitAndResets covers spec §8 scenarios 3-6.
func TestSecondCommitAndResets(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit1, err := repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "World"))
	_, err = repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit2, err := repo.Commit("update", "Alice", "alice@x")
	require.NoError(t, err)

	assert.Equal(t, commit1.Hash, commit2.ParentHash)
	assert.NotEqual(t, commit1.TreeHash, commit2.TreeHash)

	t.Run("soft reset", func(t *testing.T) {
		soft, err := repo.SoftReset(commit1.Hash)
		require.NoError(t, err)
		assert.Equal(t, commit1.Hash, soft.TargetHash)

		value, err := wb.ReadCell("wb1", 1, "A", 1)
		require.NoError(t, err)
		assert.Equal(t, "World", value)

		status, err := repo.Status()
		require.NoError(t, err)
		assert.Equal(t, 0, status.StagedCount)
		assert.Equal(t, commit1.Hash, status.HeadCommit)

		// restore HEAD to commit2 for the next subtests
		require.NoError(t, repo.refs.AdvanceHead(mustParseHash(t, commit2.Hash)))
	})

	t.Run("hard reset", func(t *testing.T) {
		hard, err := repo.HardReset(commit1.Hash)
		require.NoError(t, err)
		assert.Equal(t, commit1.Hash, hard.TargetHash)

		value, err := wb.ReadCell("wb1", 1, "A", 1)
		require.NoError(t, err)
		assert.Equal(t, "Hello", value)

		history, err := repo.History(10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, commit1.Hash, history[0].Hash)

		// restore HEAD to commit2 for the next subtest
		require.NoError(t, repo.refs.AdvanceHead(mustParseHash(t, commit2.Hash)))
		require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "World"))
	})

	t.Run("revert", func(t *testing.T) {
		revertResult, err := repo.Revert(commit2.Hash, "Bob", "bob@x")
		require.NoError(t, err)
		assert.Equal(t, commit1.TreeHash, revertResult.TreeHash)

		value, err := wb.ReadCell("wb1", 1, "A", 1)
		require.NoError(t, err)
		assert.Equal(t, "Hello", value)
	})
}

func TestRevertingRootCommitFails(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit1, err := repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	_, err = repo.Revert(commit1.Hash, "Bob", "bob@x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommitWithNothingStagedFails(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Commit("empty", "Alice", "alice@x")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCommitRejectsMalformedIdentity(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)

	_, err = repo.Commit("", "Alice", "alice@x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = repo.Commit("msg", "", "alice@x")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = repo.Commit("msg", "Alice", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCherryPick(t *testing.T) {
	repoA, wbA := newTestRepo(t)
	require.NoError(t, wbA.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repoA.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repoA.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, wbA.WriteCell("wb1", 1, "A", 1, "World"))
	_, err = repoA.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit2, err := repoA.Commit("update", "Alice", "alice@x")
	require.NoError(t, err)

	// Apply the same update commit to a second, independent repo that
	// shares no history.
	repoB, wbB := newTestRepo(t)
	require.NoError(t, wbB.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err = repoB.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repoB.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	// Copy commit2's objects into repoB's object store by replaying Get/Put.
	copyCommitTree(t, repoA, repoB, commit2.Hash)

	result, err := repoB.CherryPick(commit2.Hash, "Carol", "carol@x")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "cherry picked from commit")

	value, err := wbB.ReadCell("wb1", 1, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, "World", value)
}

func TestPreviewRollbackDestructiveFlag(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit1, err := repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "World"))
	_, err = repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repo.Commit("update", "Alice", "alice@x")
	require.NoError(t, err)

	preview, err := repo.PreviewRollback(commit1.Hash, RollbackHardReset)
	require.NoError(t, err)
	assert.True(t, preview.Destructive)
	assert.Contains(t, preview.TouchedPaths, "wb1:1:A:1")

	preview, err = repo.PreviewRollback(commit1.Hash, RollbackSoftReset)
	require.NoError(t, err)
	assert.False(t, preview.Destructive)
}

func TestCreateBranchAndList(t *testing.T) {
	repo, wb := newTestRepo(t)

	err := repo.CreateBranch("feature")
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err = repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("feature"))

	branches, err := repo.Branches()
	require.NoError(t, err)
	assert.Contains(t, branches, "main")
	assert.Contains(t, branches, "feature")

	current, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", current)
}

func mustParseHash(t *testing.T, s string) objects.Hash {
	t.Helper()
	h, err := objects.ParseHash(s)
	require.NoError(t, err)
	return h
}

// copyCommitTree copies a commit object and everything it transitively
// reaches (its tree and every blob) from src into dst's object store, so
// tests can exercise CherryPick/Revert across two independently-initialized
// repos without sharing a filesystem.
func copyCommitTree(t *testing.T, src, dst *Repo, commitHash string) {
	t.Helper()
	hash := mustParseHash(t, commitHash)

	typ, payload, err := src.objects.Get(hash)
	require.NoError(t, err)
	_, err = dst.objects.Put(typ, payload)
	require.NoError(t, err)

	c, err := objects.DecodeCommit(payload)
	require.NoError(t, err)
	copyTree(t, src, dst, c.Tree)
}

func copyTree(t *testing.T, src, dst *Repo, treeHash objects.Hash) {
	t.Helper()

	typ, payload, err := src.objects.Get(treeHash)
	require.NoError(t, err)
	_, err = dst.objects.Put(typ, payload)
	require.NoError(t, err)

	entries, err := objects.DecodeTree(payload)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsTree() {
			copyTree(t, src, dst, e.Hash)
			continue
		}
		btyp, bpayload, err := src.objects.Get(e.Hash)
		require.NoError(t, err)
		_, err = dst.objects.Put(btyp, bpayload)
		require.NoError(t, err)
	}
}
