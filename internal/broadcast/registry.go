package broadcast

import "sync"

// Registry is the set of currently connected subscribers. Membership is
// keyed by subscriber ID; there are no duplicates and no ordering.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string]Subscriber),
	}
}

func (r *Registry) Add(sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID()] = sub
}

// Remove drops a subscriber. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// ForEach calls fn for every current subscriber. The snapshot is taken
// under the lock so fn may call Remove without deadlocking.
func (r *Registry) ForEach(fn func(Subscriber)) {
	r.mu.RLock()
	subs := make([]Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	for _, sub := range subs {
		fn(sub)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
