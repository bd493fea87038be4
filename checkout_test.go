package cellvcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutBranchAttaches(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("feature"))
	require.NoError(t, repo.Checkout("feature"))

	current, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", current)
}

func TestCheckoutCommitHashDetaches(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	commit1, err := repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	require.NoError(t, repo.Checkout(commit1.Hash))

	_, err = repo.CurrentBranch()
	assert.ErrorIs(t, err, ErrInvalidInput)

	status, err := repo.Status()
	require.NoError(t, err)
	assert.True(t, status.Detached)
	assert.Equal(t, commit1.Hash, status.HeadCommit)
}

func TestCheckoutUnknownRefFails(t *testing.T) {
	repo, _ := newTestRepo(t)
	err := repo.Checkout("not-a-branch-or-hash")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
