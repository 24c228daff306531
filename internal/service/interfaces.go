package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"sync_relay/internal/domain"
	"sync_relay/internal/upstream"
)

type Upstream interface {
	Query(ctx context.Context, token, dataSourceID string, filter, sorts json.RawMessage) ([]upstream.Page, error)
	CreatePage(ctx context.Context, token, dataSourceID string, properties json.RawMessage) (*upstream.Page, error)
}

type StateStore interface {
	Get(dataSourceID string) (domain.SyncState, bool)
	Set(dataSourceID string, syncedAt time.Time, snapshot []domain.Record)
	List() []domain.SyncState
}

type Broadcaster interface {
	Publish(event domain.ChangeEvent) int
	Subscribers() int
}

type Publisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Close() error
}
