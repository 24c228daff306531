package domain

import "time"

// Record is the flat, normalized projection of one upstream page.
// Property values are scalars: string, float64, bool or nil.
type Record struct {
	ID             string         `json:"id"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	URL            string         `json:"url"`
	Archived       bool           `json:"archived"`
	Properties     map[string]any `json:"properties"`
}

// SyncResult is the outcome of one fetch→detect→publish pass.
type SyncResult struct {
	DataSourceID string
	Results      []Record
	Changes      []Record
	LastSyncedAt time.Time
}

// SourceStatus summarizes the sync state of one data source.
type SourceStatus struct {
	DataSourceID string    `json:"data_source_id"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	RecordCount  int       `json:"record_count"`
	TotalSyncs   int64     `json:"total_syncs"`
}
