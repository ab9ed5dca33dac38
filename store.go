package bindit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Write pipeline stages, as reported in WriteError.Stage.
const (
	stageTransform  = "transform"
	stageCommit     = "commit"
	stageMiddleware = "middleware"
	stageFeed       = "feed"
)

// Core write pipeline identities.
var (
	writeCoreID      = pipz.NewIdentity("bindit.store:write", "Core write sequence")
	transformStageID = pipz.NewIdentity("bindit.store:transform", "Per-path transform stage")
	commitStageID    = pipz.NewIdentity("bindit.store:commit", "Tree commit stage")
	notifyStageID    = pipz.NewIdentity("bindit.store:notify", "Subscriber notification stage")
)

// Store holds a single tree-shaped piece of state and hands out live
// bindings to its paths. Writes flow through a pipeline of user
// middleware, the path's configured transform, an atomic tree commit,
// and synchronous subscriber notification.
//
// All methods are safe for concurrent use. Subscriber callbacks run on
// the writer's goroutine after the store lock is released, so callbacks
// may freely read or write the store; a callback writing to its own path
// recurses rather than deadlocks, and terminating that recursion is the
// caller's responsibility.
type Store struct {
	pipeline pipz.Chainable[*WriteRequest]
	codec    Codec
	clock    clockz.Clock
	metrics  MetricsProvider

	mu      sync.RWMutex
	doc     []byte
	configs map[string]Config
	subs    *subscriberRegistry
	lastErr *WriteError

	errorHistory *errorRing
}

// New creates an empty Store.
//
// Pipeline options (With*) configure the write-processing pipeline.
// Instance configuration uses chainable methods before the store is
// shared:
//
//	store := bindit.New().
//	    Codec(bindit.YAMLCodec{}).
//	    ErrorHistorySize(16)
func New(opts ...Option) *Store {
	s := &Store{
		doc:     emptyDoc,
		configs: make(map[string]Config),
		subs:    newSubscriberRegistry(),
		codec:   JSONCodec{},
		clock:   clockz.RealClock,
	}

	core := pipz.NewSequence(writeCoreID,
		pipz.Apply(transformStageID, s.transformStage),
		pipz.Apply(commitStageID, s.commitStage),
		pipz.Effect(notifyStageID, s.notifyStage),
	)
	s.pipeline = buildPipeline(core, opts)

	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Codec sets the codec for snapshots and feed documents.
// Default: JSONCodec. Must be called before the store is shared.
func (s *Store) Codec(codec Codec) *Store {
	s.codec = codec
	return s
}

// Clock sets a custom clock for error timestamps, write durations, and
// feed debouncing. Use this with clockz.FakeClock for deterministic
// tests. Must be called before the store is shared.
func (s *Store) Clock(clock clockz.Clock) *Store {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider for observability integration.
// The provider receives callbacks on write outcomes, notification
// fan-outs, and adapter events. Must be called before the store is
// shared.
func (s *Store) Metrics(provider MetricsProvider) *Store {
	s.metrics = provider
	return s
}

// ErrorHistorySize sets the number of recent write errors to retain.
// When set, ErrorHistory() returns up to this many recent errors.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before the store is shared.
func (s *Store) ErrorHistorySize(n int) *Store {
	s.errorHistory = newErrorRing(n)
	return s
}

// Initial seeds the tree from v, which must marshal to a JSON object.
// Transforms and subscribers are bypassed: seeding is construction, not
// a write. Panics if v cannot be represented as a tree; a malformed
// initial value is a programming error. Must be called before the store
// is shared.
func (s *Store) Initial(v any) *Store {
	doc, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("bindit: initial value not representable: %v", err))
	}
	var check map[string]any
	if err := json.Unmarshal(doc, &check); err != nil {
		panic(fmt.Sprintf("bindit: initial value is not an object: %v", err))
	}
	s.doc = doc
	return s
}

// -----------------------------------------------------------------------------
// Reading
// -----------------------------------------------------------------------------

// Read returns the canonical value at a dot-separated path and whether
// the path exists. Absent paths are not an error; they read as
// (nil, false). Values come back in canonical tree form: map[string]any,
// []any, float64, string, bool, or nil.
func (s *Store) Read(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolvePath(s.doc, path)
}

// Snapshot returns a decoded copy of the whole tree. The copy is
// detached: later writes do not affect it.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	var out map[string]any
	if err := json.Unmarshal(doc, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// SnapshotBytes serializes the whole tree through the store codec.
func (s *Store) SnapshotBytes() ([]byte, error) {
	return s.codec.Marshal(s.Snapshot())
}

// Decode unmarshals the subtree at path into out, typically a struct
// with json tags. Decoding is weakly typed: canonical float64 numbers
// fit int fields and numeric strings fit number fields. An empty path
// decodes the whole tree. Absent paths leave out untouched.
func (s *Store) Decode(path string, out any) error {
	var v any
	if path == "" {
		v = s.Snapshot()
	} else {
		var ok bool
		v, ok = s.Read(path)
		if !ok {
			return nil
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Writing
// -----------------------------------------------------------------------------

// Write sends value through the write pipeline for path: user
// middleware, the path's configured transform, commit, then synchronous
// notification of the path's subscribers. Intermediate objects are
// created for any missing path segments.
//
// On error nothing is committed and no subscriber fires; the error is
// returned and recorded in the error history.
func (s *Store) Write(ctx context.Context, path string, value any) error {
	return s.write(ctx, path, value, nil)
}

// Remove deletes the value at path and notifies the path's subscribers
// with nil. Removing an absent path is a no-op that still notifies.
// Transforms do not run; removal is not a value write.
func (s *Store) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	doc, err := removePath(s.doc, path)
	if err != nil {
		s.mu.Unlock()
		s.recordError(path, stageCommit, err)
		return fmt.Errorf("remove %s: %w", path, err)
	}
	s.doc = doc
	s.mu.Unlock()

	capitan.Emit(ctx, StoreWriteApplied, KeyPath.Field(path))
	s.notify(path, nil)
	return nil
}

// write runs the pipeline for one request, routing notification into b
// when a batch scope is open.
func (s *Store) write(ctx context.Context, path string, value any, b *Batch) error {
	start := s.clock.Now()
	req := &WriteRequest{
		Path:   path,
		Input:  value,
		Value:  value,
		Config: s.configFor(path),
		batch:  b,
	}

	if _, err := s.pipeline.Process(ctx, req); err != nil {
		stage := req.stage
		if stage == "" {
			stage = stageMiddleware
		}
		s.recordError(path, stage, err)
		capitan.Emit(ctx, StoreWriteRejected,
			KeyPath.Field(path),
			KeyStage.Field(stage),
			KeyError.Field(err.Error()),
		)
		if s.metrics != nil {
			s.metrics.OnWriteFailure(path, stage, s.clock.Since(start))
		}
		return fmt.Errorf("write %s: %w", path, err)
	}

	capitan.Emit(ctx, StoreWriteApplied, KeyPath.Field(path))
	if s.metrics != nil {
		s.metrics.OnWriteSuccess(path, s.clock.Since(start))
	}
	return nil
}

// transformStage runs the path's configured transform, if any.
func (s *Store) transformStage(ctx context.Context, req *WriteRequest) (*WriteRequest, error) {
	if req.Config.Transform == nil {
		return req, nil
	}
	out, err := req.Config.Transform(ctx, req.Value)
	if err != nil {
		req.stage = stageTransform
		return req, err
	}
	req.Value = out
	return req, nil
}

// commitStage writes the transformed value into the tree and records the
// canonical committed form on the request.
func (s *Store) commitStage(_ context.Context, req *WriteRequest) (*WriteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := commitPath(s.doc, req.Path, req.Value)
	if err != nil {
		req.stage = stageCommit
		return req, err
	}
	s.doc = doc

	committed, _ := resolvePath(doc, req.Path)
	req.Committed = committed
	return req, nil
}

// notifyStage delivers the committed value, either immediately or into
// the open batch scope.
func (s *Store) notifyStage(_ context.Context, req *WriteRequest) error {
	if req.batch != nil {
		req.batch.record(req.Path, req.Committed)
		return nil
	}
	s.notify(req.Path, req.Committed)
	return nil
}

// notify invokes the path's subscribers outside the store lock.
func (s *Store) notify(path string, value any) {
	s.mu.RLock()
	subs := s.subs.snapshot(path)
	s.mu.RUnlock()

	if s.metrics != nil {
		s.metrics.OnNotify(path, len(subs))
	}
	for _, fn := range subs {
		fn(value, path)
	}
}

// -----------------------------------------------------------------------------
// Bindings and Subscription
// -----------------------------------------------------------------------------

// Bind registers cfg for path and returns a live binding. Re-binding a
// path replaces its configuration; existing subscribers are unaffected.
func (s *Store) Bind(path string, cfg Config) Binding {
	s.mu.Lock()
	s.configs[path] = cfg
	s.mu.Unlock()
	return Binding{store: s, path: path}
}

// View returns a binding for path without registering configuration.
// Reads, writes, and subscriptions behave as for an unconfigured path,
// or under whatever configuration Bind has registered.
func (s *Store) View(path string) Binding {
	return Binding{store: s, path: path}
}

// Subscribe registers fn to observe writes to path and returns its
// unsubscribe function. The same function can be registered multiple
// times and is then invoked once per registration. Unsubscribing twice
// is a no-op.
func (s *Store) Subscribe(path string, fn Subscriber) func() {
	s.mu.Lock()
	id := s.subs.add(path, fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs.remove(path, id)
		s.mu.Unlock()
	}
}

// configFor returns the registered configuration for path, or the zero
// Config.
func (s *Store) configFor(path string) Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configs[path]
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// LastError returns the most recent write failure, or nil. Successful
// writes do not clear it; the error history is a log, not a health
// indicator.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastErr == nil {
		return nil
	}
	return *s.lastErr
}

// ErrorHistory returns the recent write failures, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (s *Store) ErrorHistory() []WriteError {
	return s.errorHistory.all()
}

// recordError stores a write failure for LastError and the history ring.
func (s *Store) recordError(path, stage string, err error) {
	e := WriteError{Path: path, Stage: stage, Err: err, At: s.clock.Now()}
	s.mu.Lock()
	s.lastErr = &e
	s.mu.Unlock()
	s.errorHistory.push(e)
}
