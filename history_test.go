package cellvcs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRejectsOutOfRangeLimit(t *testing.T) {
	repo, wb := newTestRepo(t)
	require.NoError(t, wb.WriteCell("wb1", 1, "A", 1, "Hello"))
	_, err := repo.Stage("wb1", 1, "A", 1)
	require.NoError(t, err)
	_, err = repo.Commit("init", "Alice", "alice@x")
	require.NoError(t, err)

	_, err = repo.History(0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = repo.History(-1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = repo.History(MaxHistoryLimit + 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	history, err := repo.History(MaxHistoryLimit)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
