package service

import (
	"log/slog"
	"time"

	"sync_relay/internal/domain"
)

// Detector computes the incremental changeset between a fresh snapshot
// and the stored per-source watermark.
type Detector struct {
	store  StateStore
	logger *slog.Logger
	now    func() time.Time
}

func NewDetector(store StateStore, logger *slog.Logger) *Detector {
	return &Detector{
		store:  store,
		logger: logger.With("component", "detector"),
		now:    time.Now,
	}
}

// Detect returns the records of snapshot edited strictly after the stored
// watermark, or the whole snapshot on first sync. The store is written
// unconditionally afterwards, empty delta or not, so the watermark
// advances on every call.
func (d *Detector) Detect(dataSourceID string, snapshot []domain.Record) ([]domain.Record, time.Time) {
	prior, synced := d.store.Get(dataSourceID)

	var changes []domain.Record
	if !synced || prior.LastSyncedAt.IsZero() {
		changes = snapshot
	} else {
		for _, rec := range snapshot {
			if d.editedAfter(rec, prior.LastSyncedAt) {
				changes = append(changes, rec)
			}
		}
	}

	syncedAt := d.now().UTC()
	d.store.Set(dataSourceID, syncedAt, snapshot)

	d.logger.Debug("detected changes",
		"data_source_id", dataSourceID,
		"snapshot", len(snapshot),
		"changes", len(changes),
	)

	return changes, syncedAt
}

// editedAfter compares chronologically, not lexically: upstream timestamp
// precision varies, so the string is parsed before comparison. Records
// with unparseable timestamps are treated as changed.
func (d *Detector) editedAfter(rec domain.Record, watermark time.Time) bool {
	edited, err := time.Parse(time.RFC3339, rec.LastEditedTime)
	if err != nil {
		d.logger.Warn("unparseable last_edited_time, treating as changed",
			"record_id", rec.ID,
			"last_edited_time", rec.LastEditedTime,
		)
		return true
	}
	return edited.After(watermark)
}
