package broadcast

import (
	"encoding/json"
	"log/slog"

	"sync_relay/internal/domain"
)

// Dispatcher publishes change events to every live subscriber in the
// registry. The event is serialized once; every subscriber receives the
// identical bytes.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.With("component", "broadcast"),
	}
}

// Publish sends the event to all open subscribers and returns the number
// delivered. Subscribers that are not open are skipped silently, not
// queued or retried; a failed send removes the subscriber.
func (d *Dispatcher) Publish(event domain.ChangeEvent) int {
	data, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("marshal event", "error", err)
		return 0
	}

	delivered := 0
	d.registry.ForEach(func(sub Subscriber) {
		if !sub.IsOpen() {
			return
		}
		if err := sub.Send(data); err != nil {
			d.logger.Warn("send failed, dropping subscriber",
				"subscriber_id", sub.ID(),
				"error", err,
			)
			d.registry.Remove(sub.ID())
			_ = sub.Close()
			return
		}
		delivered++
	})

	d.logger.Debug("event published",
		"data_source_id", event.DataSourceID,
		"changes", event.ChangesCount,
		"delivered", delivered,
	)

	return delivered
}

// Subscribers returns the current registry size.
func (d *Dispatcher) Subscribers() int {
	return d.registry.Len()
}
