package domain

import "time"

// SyncState is the per-source watermark and last observed snapshot.
// A zero LastSyncedAt means the source has never been synced.
// The snapshot is overwritten wholesale on every sync; records deleted
// upstream simply disappear from it, there are no tombstones.
type SyncState struct {
	DataSourceID string
	LastSyncedAt time.Time
	LastSnapshot []Record
	TotalSyncs   int64
}
