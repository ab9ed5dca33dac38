package bindit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for feed processing.
const DefaultDebounce = 100 * time.Millisecond

// Follower consumes a Feed and applies each document to a Store. Every
// emission is decoded through the store codec into a tree, flattened to
// its leaf paths, and written as one batch, so each changed path
// notifies at most once per document.
//
// Writes still run the full pipeline: path transforms apply and a
// failing transform rejects that leaf without disturbing the ones
// already committed.
type Follower struct {
	store          *Store
	feed           Feed
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// Follow creates a Follower that applies documents from feed to the
// store. Configure it with chainable methods, then call Start:
//
//	follower := store.Follow(bindit.NewFileFeed("draft.json")).
//	    Debounce(200 * time.Millisecond)
//	if err := follower.Start(ctx); err != nil {
//	    log.Printf("prefill failed: %v", err)
//	}
func (s *Store) Follow(feed Feed) *Follower {
	return &Follower{
		store:    s,
		feed:     feed,
		debounce: DefaultDebounce,
		clock:    s.clock,
	}
}

// Debounce sets the debounce duration for document processing. Documents
// arriving within this duration are coalesced and only the last one is
// applied. Default: 100ms. Must be called before Start().
func (f *Follower) Debounce(d time.Duration) *Follower {
	f.debounce = d
	return f
}

// SyncMode enables synchronous processing for testing. In sync mode,
// documents are processed immediately without debouncing or async
// goroutines, making tests deterministic. Must be called before Start().
func (f *Follower) SyncMode() *Follower {
	f.syncMode = true
	return f
}

// Clock sets a custom clock for debounce timing. Defaults to the store
// clock. Use this with clockz.FakeClock for deterministic debounce
// testing. Must be called before Start().
func (f *Follower) Clock(clock clockz.Clock) *Follower {
	f.clock = clock
	return f
}

// StartupTimeout sets the maximum duration to wait for the initial
// document from the feed. If the feed fails to emit within this
// duration, Start() returns an error.
// Default: no timeout (wait indefinitely). Must be called before Start().
func (f *Follower) StartupTimeout(d time.Duration) *Follower {
	f.startupTimeout = d
	return f
}

// Start begins consuming the feed. It blocks until the first document is
// processed (success or failure), then continues applying documents
// asynchronously.
//
// If the initial document fails to apply, Start returns the error but
// continues consuming in the background for valid updates.
//
// In sync mode, Start only processes the initial document. Use Process()
// to manually trigger processing of subsequent documents.
//
// Start can only be called once. Subsequent calls return an error.
func (f *Follower) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return fmt.Errorf("follower already started")
	}
	f.started = true
	f.mu.Unlock()

	capitan.Emit(ctx, FollowerStarted,
		KeyDebounce.Field(f.debounce),
	)

	changes, err := f.feed.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start feed: %w", err)
	}

	// Wait for first document and apply synchronously
	var initialErr error

	startupCtx := ctx
	if f.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = f.clock.WithTimeout(ctx, f.startupTimeout)
		defer cancel()
	}

	select {
	case <-startupCtx.Done():
		if f.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: feed did not emit initial document within %v", f.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("feed closed before emitting initial document")
		}
		initialErr = f.apply(ctx, raw)
	}

	if f.syncMode {
		// In sync mode, store channel for manual processing
		f.changes = changes
		return initialErr
	}

	// Continue consuming asynchronously
	go f.consume(ctx, changes)

	return initialErr
}

// Process reads and applies the next document from the feed. This is
// only available in sync mode and is used for deterministic testing.
// Returns false if no document is available or the channel is closed.
func (f *Follower) Process(ctx context.Context) bool {
	if !f.syncMode {
		return false
	}

	select {
	case raw, ok := <-f.changes:
		if !ok {
			return false
		}
		_ = f.apply(ctx, raw) //nolint:errcheck // Errors recorded via store error history
		return true
	default:
		return false
	}
}

// apply decodes one document and writes its leaves as a batch.
func (f *Follower) apply(ctx context.Context, raw []byte) error {
	start := f.clock.Now()

	var tree map[string]any
	if err := f.store.codec.Unmarshal(raw, &tree); err != nil {
		f.store.recordError("", stageFeed, err)
		capitan.Emit(ctx, FeedRejected,
			KeyError.Field(err.Error()),
		)
		if f.store.metrics != nil {
			f.store.metrics.OnWriteFailure("", stageFeed, f.clock.Since(start))
		}
		return fmt.Errorf("feed decode failed: %w", err)
	}

	leaves := flattenTree(tree)
	err := f.store.Batch(ctx, func(b *Batch) error {
		var firstErr error
		for _, l := range leaves {
			if err := b.Set(ctx, l.path, l.value); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
	if err != nil {
		capitan.Emit(ctx, FeedRejected,
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("feed apply failed: %w", err)
	}

	capitan.Emit(ctx, FeedApplied,
		KeyPaths.Field(len(leaves)),
	)
	return nil
}

// consume processes documents from the feed channel with debouncing.
func (f *Follower) consume(ctx context.Context, changes <-chan []byte) {
	defer capitan.Emit(ctx, FollowerStopped)

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		// Get timer channel or nil if no timer
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				// Channel closed, apply any pending document
				if hasPending {
					_ = f.apply(ctx, pending) //nolint:errcheck // Errors recorded via store error history
				}
				return
			}

			pending = raw
			hasPending = true

			// Reset or start debounce timer
			if timer == nil {
				timer = f.clock.NewTimer(f.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(f.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = f.apply(ctx, pending) //nolint:errcheck // Errors recorded via store error history
				hasPending = false
			}
		}
	}
}
