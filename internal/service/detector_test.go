package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync_relay/internal/domain"
	"sync_relay/internal/syncstate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestDetector_FirstSyncReturnsEverything(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	snapshot := []domain.Record{
		{ID: "a", LastEditedTime: "2024-01-01T00:00:00Z"},
		{ID: "b", LastEditedTime: "2024-01-02T00:00:00Z"},
	}

	changes, syncedAt := detector.Detect("db1", snapshot)

	assert.Equal(t, snapshot, changes)
	assert.False(t, syncedAt.IsZero())

	state, ok := store.Get("db1")
	require.True(t, ok)
	assert.Equal(t, snapshot, state.LastSnapshot)
	assert.Equal(t, syncedAt, state.LastSyncedAt)
}

func TestDetector_OnlyRecordsEditedAfterWatermark(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	watermark := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	store.Set("db1", watermark, nil)

	snapshot := []domain.Record{
		{ID: "old", LastEditedTime: "2024-01-01T10:59:59Z"},
		{ID: "new", LastEditedTime: "2024-01-01T11:00:01Z"},
	}

	changes, _ := detector.Detect("db1", snapshot)

	require.Len(t, changes, 1)
	assert.Equal(t, "new", changes[0].ID)
}

func TestDetector_ComparesChronologicallyNotLexically(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	watermark := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	store.Set("db1", watermark, nil)

	snapshot := []domain.Record{
		// 12:00 local at +02:00 is 10:00 UTC, before the watermark even
		// though the string sorts after "2024-01-01T11:00:00Z".
		{ID: "offset", LastEditedTime: "2024-01-01T12:00:00+02:00"},
		// Fractional precision, 11:00:00.500 UTC, after the watermark.
		{ID: "precise", LastEditedTime: "2024-01-01T11:00:00.500Z"},
	}

	changes, _ := detector.Detect("db1", snapshot)

	require.Len(t, changes, 1)
	assert.Equal(t, "precise", changes[0].ID)
}

func TestDetector_UnparseableTimestampTreatedAsChanged(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	store.Set("db1", time.Now(), nil)

	snapshot := []domain.Record{
		{ID: "weird", LastEditedTime: "not-a-timestamp"},
	}

	changes, _ := detector.Detect("db1", snapshot)

	require.Len(t, changes, 1)
	assert.Equal(t, "weird", changes[0].ID)
}

func TestDetector_WatermarkAdvancesOnEmptyDelta(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	snapshot := []domain.Record{
		{ID: "a", LastEditedTime: "2024-01-01T00:00:00Z"},
	}

	_, first := detector.Detect("db1", snapshot)

	changes, second := detector.Detect("db1", snapshot)

	assert.Empty(t, changes)
	assert.False(t, second.Before(first))

	state, ok := store.Get("db1")
	require.True(t, ok)
	assert.Equal(t, second, state.LastSyncedAt)
	assert.Equal(t, int64(2), state.TotalSyncs)
}

func TestDetector_SnapshotOverwrittenNotMerged(t *testing.T) {
	store := syncstate.NewStore()
	detector := NewDetector(store, testLogger())

	detector.Detect("db1", []domain.Record{
		{ID: "a", LastEditedTime: "2024-01-01T00:00:00Z"},
		{ID: "b", LastEditedTime: "2024-01-01T00:00:00Z"},
	})

	// "b" deleted upstream: it must vanish from the stored snapshot.
	detector.Detect("db1", []domain.Record{
		{ID: "a", LastEditedTime: "2024-01-01T00:00:00Z"},
	})

	state, ok := store.Get("db1")
	require.True(t, ok)
	require.Len(t, state.LastSnapshot, 1)
	assert.Equal(t, "a", state.LastSnapshot[0].ID)
}
