package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sync_relay/internal/domain"
	"sync_relay/internal/normalize"
)

// SyncService runs the fetch→normalize→detect→publish pipeline.
//
// Concurrent calls for the same data source are allowed and race
// last-writer-wins on the state store: two in-flight syncs may commit
// their watermark and snapshot in either order. This relaxed consistency
// is deliberate; there is no per-source lock around fetch and detect.
type SyncService struct {
	upstream  Upstream
	store     StateStore
	detector  *Detector
	broadcast Broadcaster
	publisher Publisher
	logger    *slog.Logger
	syncToken string
	started   time.Time
}

func NewSyncService(
	up Upstream,
	store StateStore,
	detector *Detector,
	broadcast Broadcaster,
	publisher Publisher,
	logger *slog.Logger,
	syncToken string,
) *SyncService {
	return &SyncService{
		upstream:  up,
		store:     store,
		detector:  detector,
		broadcast: broadcast,
		publisher: publisher,
		logger:    logger.With("component", "sync"),
		syncToken: syncToken,
		started:   time.Now(),
	}
}

// Query fetches a fresh snapshot, detects changes against the stored
// watermark and publishes a non-empty delta to all subscribers. An
// upstream failure aborts the call before any state is written.
func (s *SyncService) Query(ctx context.Context, token, dataSourceID string, filter, sorts json.RawMessage) (*domain.SyncResult, error) {
	pages, err := s.upstream.Query(ctx, token, dataSourceID, filter, sorts)
	if err != nil {
		return nil, fmt.Errorf("query upstream: %w", err)
	}

	records := normalize.Records(pages)
	changes, syncedAt := s.detector.Detect(dataSourceID, records)

	s.publishChanges(ctx, dataSourceID, changes, syncedAt)

	s.logger.Info("sync completed",
		"data_source_id", dataSourceID,
		"results", len(records),
		"changes", len(changes),
	)

	return &domain.SyncResult{
		DataSourceID: dataSourceID,
		Results:      records,
		Changes:      changes,
		LastSyncedAt: syncedAt,
	}, nil
}

// Changes restricts the upstream query to records edited after the stored
// watermark, then runs the same pipeline. A source that has never been
// synced is queried without a filter and everything counts as changed.
func (s *SyncService) Changes(ctx context.Context, token, dataSourceID string) (*domain.SyncResult, error) {
	var filter json.RawMessage

	if state, ok := s.store.Get(dataSourceID); ok && !state.LastSyncedAt.IsZero() {
		filter = editedAfterFilter(state.LastSyncedAt)
	}

	return s.Query(ctx, token, dataSourceID, filter, nil)
}

// CreatePage forwards a page creation to the upstream API and returns the
// created record normalized. Sync state is not touched.
func (s *SyncService) CreatePage(ctx context.Context, token, dataSourceID string, properties json.RawMessage) (*domain.Record, error) {
	page, err := s.upstream.CreatePage(ctx, token, dataSourceID, properties)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	rec := normalize.Record(*page)
	return &rec, nil
}

// SyncSource re-syncs one source with the configured scheduler token.
func (s *SyncService) SyncSource(ctx context.Context, dataSourceID string) (*domain.SyncResult, error) {
	return s.Query(ctx, s.syncToken, dataSourceID, nil, nil)
}

// Status reports every known source, the live subscriber count and the
// service uptime.
func (s *SyncService) Status() ([]domain.SourceStatus, int, time.Duration) {
	states := s.store.List()

	sources := make([]domain.SourceStatus, 0, len(states))
	for _, state := range states {
		sources = append(sources, domain.SourceStatus{
			DataSourceID: state.DataSourceID,
			LastSyncedAt: state.LastSyncedAt,
			RecordCount:  len(state.LastSnapshot),
			TotalSyncs:   state.TotalSyncs,
		})
	}

	return sources, s.broadcast.Subscribers(), time.Since(s.started)
}

func (s *SyncService) publishChanges(ctx context.Context, dataSourceID string, changes []domain.Record, syncedAt time.Time) {
	if len(changes) == 0 {
		return
	}

	event := domain.ChangeEvent{
		Type:         domain.EventTypeChanges,
		DataSourceID: dataSourceID,
		ChangesCount: len(changes),
		Data:         changes,
		Timestamp:    syncedAt,
	}

	delivered := s.broadcast.Publish(event)
	s.logger.Debug("broadcast changes",
		"data_source_id", dataSourceID,
		"changes", len(changes),
		"delivered", delivered,
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("publish to broker failed", "error", err)
		}
	}
}

func editedAfterFilter(after time.Time) json.RawMessage {
	filter := map[string]any{
		"timestamp": "last_edited_time",
		"last_edited_time": map[string]string{
			"after": after.UTC().Format(time.RFC3339),
		},
	}
	data, _ := json.Marshal(filter)
	return data
}
