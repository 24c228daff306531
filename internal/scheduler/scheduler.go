package scheduler

import (
	"context"
	"log/slog"
	"time"

	"sync_relay/internal/domain"
)

// Syncer re-runs the sync pipeline for one data source.
type Syncer interface {
	SyncSource(ctx context.Context, dataSourceID string) (*domain.SyncResult, error)
}

// StateLister enumerates the sources that have sync state.
type StateLister interface {
	List() []domain.SyncState
}

// Scheduler periodically re-syncs every data source that has been
// queried at least once. A failure for one source never stops the
// remaining sources in that tick, nor the next tick.
type Scheduler struct {
	syncer     Syncer
	states     StateLister
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(syncer Syncer, states StateLister, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:     syncer,
		states:     states,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	states := s.states.List()
	if len(states) == 0 {
		return
	}

	for _, state := range states {
		result, err := s.syncer.SyncSource(tickCtx, state.DataSourceID)
		if err != nil {
			s.logger.Error("source sync failed",
				"data_source_id", state.DataSourceID,
				"error", err,
			)
			continue
		}

		if len(result.Changes) > 0 {
			s.logger.Info("scheduled sync found changes",
				"data_source_id", state.DataSourceID,
				"changes", len(result.Changes),
			)
		}
	}
}
