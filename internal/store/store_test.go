package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleMatch(id string) ArchivedMatch {
	return ArchivedMatch{
		ID:      id,
		Map:     "de_dust2",
		Format:  "mr12",
		Seed:    12345,
		TeamA:   "Alpha",
		TeamB:   "Bravo",
		ScoreA:  13,
		ScoreB:  7,
		Status:  "completed",
		Rounds:  20,
		Digest:  "abc123",
		LogText: "L 01/01/2024 - 12:00:00: Log file closed\n",
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleMatch("m1")))

	got, err := s.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "de_dust2", got.Map)
	assert.Equal(t, int64(12345), got.Seed)
	assert.Equal(t, 13, got.ScoreA)
	assert.Equal(t, "abc123", got.Digest)
	assert.NotEmpty(t, got.LogText, "point reads include the log text")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_SaveIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := sampleMatch("m1")
	require.NoError(t, s.Save(ctx, m))

	m.ScoreA = 0
	require.NoError(t, s.Save(ctx, m), "second save is a no-op, not an error")

	got, err := s.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 13, got.ScoreA, "the first write wins")

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_ListOmitsLogText(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleMatch("m1")))
	require.NoError(t, s.Save(ctx, sampleMatch("m2")))

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, m := range list {
		assert.Empty(t, m.LogText)
		assert.NotEmpty(t, m.Digest)
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, sampleMatch(id)))
	}

	list, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default")
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(context.Background(), sampleMatch("m1")))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.ID)
}
