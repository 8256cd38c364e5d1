package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/mazerunner/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_RecordAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "journal.sqlite")

	j, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []ports.JournalEntry{
		{RunID: "run-a", At: at, Kind: "post", RoomID: 1, Detail: "[0]A closet."},
		{RunID: "run-a", At: at.Add(time.Minute), Kind: "move", Move: 1, RoomID: 2, Detail: "left (3 votes) from 1"},
		{RunID: "run-b", At: at.Add(time.Hour), Kind: "post", RoomID: 10, Detail: "[0]A hallway."},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
	}

	got, err := j.Entries(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, entries[:2], got)

	latest, err := j.Entries(ctx, "")
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "run-b", latest[0].RunID)
}

func TestSQLite_EmptyJournal(t *testing.T) {
	j, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Entries(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
