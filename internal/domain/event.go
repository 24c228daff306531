package domain

import "time"

// EventTypeChanges tags change notifications pushed to subscribers.
const EventTypeChanges = "changes"

// ChangeEvent is the payload fanned out to subscribers when a detection
// pass yields a non-empty delta.
type ChangeEvent struct {
	Type         string    `json:"type"`
	DataSourceID string    `json:"data_source_id"`
	ChangesCount int       `json:"changes_count"`
	Data         []Record  `json:"data"`
	Timestamp    time.Time `json:"timestamp"`
}
