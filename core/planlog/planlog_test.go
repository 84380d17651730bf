package planlog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(runID string, month int, ts time.Time, seq ...string) Record {
	return Record{RunID: runID, Timestamp: ts, Month: month, Found: len(seq) > 0, Cost: 12, Sequence: seq}
}

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.Append(ctx, sample("r2", 3, now.Add(time.Minute), "b", "b")))
	require.NoError(t, s.Append(ctx, sample("r1", 3, now, "a", "a")))
	require.NoError(t, s.Append(ctx, sample("r3", 4, now.Add(2*time.Minute), "a", "b")))

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].RunID)

	march, err := s.Query(ctx, Query{Month: 3})
	require.NoError(t, err)
	assert.Len(t, march, 2)

	withA, err := s.Query(ctx, Query{FacilityID: "a"})
	require.NoError(t, err)
	assert.Len(t, withA, 2)

	late, err := s.Query(ctx, Query{Start: now.Add(90 * time.Second)})
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, "r3", late[0].RunID)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs", "schedules.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedules.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 3, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	rec := sample("big", 1, time.Now())
	rec.Error = strings.Repeat("x", 300*1024)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(context.Background(), rec))
	}
	files, _ := filepath.Glob(filepath.Join(dir, "schedules*"))
	assert.Greater(t, len(files), 1)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestNewFromConfig(t *testing.T) {
	c := Config{Backend: "none"}
	c.SetDefaults()
	require.NoError(t, c.Validate())
	s, err := New(c)
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	c = Config{Backend: "csv", Path: "x"}
	assert.Error(t, c.Validate())
	_, err = New(c)
	assert.Error(t, err)

	c = Config{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "log.db")}
	s, err = New(c)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
