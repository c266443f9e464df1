package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndTailSpecializations(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.RecordSpecialization(ctx, 1, "(Int, String)", "(Int, Any)")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = j.RecordSpecialization(ctx, 2, "(Float)", "(Float)")
	require.NoError(t, err)

	events, err := j.TailSpecializations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, uint64(2), events[0].MethodUID)
}

func TestRecordAndListAmbiguities(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	_, err := j.RecordAmbiguity(ctx, "(Int, Any)", "(Any, String)")
	require.NoError(t, err)

	events, err := j.Ambiguous(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "(Int, Any)", events[0].SigA)
}

func TestTailSpecializationsLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := j.RecordSpecialization(ctx, uint64(i), "(Int)", "(Int)")
		require.NoError(t, err)
	}

	events, err := j.TailSpecializations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
}
