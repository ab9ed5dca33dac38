package bindit

import "sort"

// Subscriber receives the committed value for a path after each applied
// write. Callbacks run on the writer's goroutine, outside the store lock,
// so a subscriber may freely read or write the store.
type Subscriber func(value any, path string)

// subscriberRegistry tracks per-path subscriber sets. Registrations are
// keyed by id so the same function can be registered twice and removed
// exactly once per registration. A path's entry is dropped with its last
// subscriber. The registry itself is not locked; the owning store
// serializes access.
type subscriberRegistry struct {
	paths  map[string]map[uint64]Subscriber
	nextID uint64
}

func newSubscriberRegistry() *subscriberRegistry {
	return &subscriberRegistry{paths: make(map[string]map[uint64]Subscriber)}
}

// add registers fn for path and returns its registration id.
func (r *subscriberRegistry) add(path string, fn Subscriber) uint64 {
	id := r.nextID
	r.nextID++
	set := r.paths[path]
	if set == nil {
		set = make(map[uint64]Subscriber)
		r.paths[path] = set
	}
	set[id] = fn
	return id
}

// remove drops the registration. Removing twice is a no-op.
func (r *subscriberRegistry) remove(path string, id uint64) {
	set, ok := r.paths[path]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.paths, path)
	}
}

// snapshot returns the subscribers for path in registration order. The
// slice is detached so callbacks can be invoked without holding the
// store lock.
func (r *subscriberRegistry) snapshot(path string) []Subscriber {
	set := r.paths[path]
	if len(set) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Subscriber, len(ids))
	for i, id := range ids {
		out[i] = set[id]
	}
	return out
}

// count reports how many subscribers are registered for path.
func (r *subscriberRegistry) count(path string) int {
	return len(r.paths[path])
}
