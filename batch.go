package bindit

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Batch is an open notification-coalescing scope. Writes through a batch
// commit immediately, exactly like direct writes; only the notifications
// are held back. When the scope exits, each touched path's subscribers
// fire once with the final committed value.
//
// A Batch is handed to the scope function by Store.Batch and is only
// valid within it. It must not be shared across goroutines.
type Batch struct {
	store *Store

	// order holds touched paths in first-write order; final maps each
	// to the value its subscribers will see.
	order []string
	final map[string]any
}

// Set writes value to path with notification deferred into the scope.
// Errors behave exactly as for Store.Write: nothing commits, no
// notification is recorded, and the error history is updated.
func (b *Batch) Set(ctx context.Context, path string, value any) error {
	return b.store.write(ctx, path, value, b)
}

// Read returns the current value at path. Commits inside the scope are
// immediately visible, deferral applies to notifications only.
func (b *Batch) Read(path string) (any, bool) {
	return b.store.Read(path)
}

// record notes a committed write for flush. Re-writes within the scope
// keep their first-write position but update the delivered value.
func (b *Batch) record(path string, value any) {
	if _, seen := b.final[path]; !seen {
		b.order = append(b.order, path)
	}
	b.final[path] = value
}

// Batch runs fn inside a notification-coalescing scope. Every write
// through the scope commits immediately, but each touched path notifies
// at most once, with its final committed value, after fn returns.
//
// Committed writes are not rolled back when fn returns an error; their
// notifications still fire, and the error is returned to the caller.
// Notifications run in first-write order on the caller's goroutine.
func (s *Store) Batch(ctx context.Context, fn func(b *Batch) error) error {
	b := &Batch{store: s, final: make(map[string]any)}
	err := fn(b)

	for _, path := range b.order {
		s.notify(path, b.final[path])
	}
	capitan.Emit(ctx, StoreBatchFlushed, KeyPaths.Field(len(b.order)))

	return err
}
