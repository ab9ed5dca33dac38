/*
Package bindit binds tree-shaped state to form controls. A caller
declares a single Store, registers per-path configuration, and obtains
for any dot-addressed path a live Binding that reads, writes, validates,
and notifies.

# Store

A Store holds one tree. Writes flow through a pipeline before commit:

	Middleware → Transform → Commit → Notify

Transforms convert user input into its stored form and can veto the
write; nothing commits on failure. Subscribers are notified
synchronously after commit with exactly the value a subsequent read
returns.

	store := bindit.New()
	email := store.Bind("user.email", bindit.Config{
	    Transform: bindit.Pipe(bindit.Trim, bindit.Lower),
	    Validator: bindit.All(bindit.Required, bindit.Email),
	})

	unsubscribe := email.Subscribe(func(v any, path string) {
	    render(v)
	})
	defer unsubscribe()

	if err := email.Set(ctx, "  USER@Example.com "); err != nil {
	    log.Printf("write rejected: %v", err)
	}

Intermediate objects are created on demand: writing "user.profile.name"
into an empty tree materializes "user" and "user.profile". Validation is
computed on read and never blocks a write; invalid values stay in the
tree so controlled inputs always reflect what was typed.

# Typed Fields

Field[T] is a typed facade over a Binding for construction-time safety.
Stored values stay in canonical tree form (numbers are float64); reads
coerce back to T:

	age := bindit.NewField(store, "user.age", bindit.FieldConfig[float64]{
	    Validate: func(v float64) error {
	        if v < 18 {
	            return errors.New("Must be 18 or older")
	        }
	        return nil
	    },
	})

# Input Adapters

An Adapter reconciles raw platform events into binding writes. It runs a
composition state machine so IME input is neither duplicated nor lost:
while composing, desktop platforms suppress raw events entirely, Android
suppresses only events that carry no new text, and iOS/unknown platforms
write through. Ending a composition always commits the final text in a
single write.

	adapter := bindit.NewAdapter(email, bindit.ClassifyUserAgent(ua))
	props := adapter.TextInputProps()

Props bundles carry the current value, event handlers, focus tracking,
cursor restoration, and accessibility attributes for each control shape.
Validation visibility follows the path's timing policy (on touch, on
change, or on submit) driven by the adapter's monotonic touched and
submit-attempted flags.

# Feeds

A Feed emits serialized tree documents; a Follower applies them to the
store for prefill and live synchronization. Documents decode through the
store codec, flatten to leaf paths, and commit as one batch, so each
changed path notifies at most once per document:

	follower := store.Follow(bindit.NewFileFeed("draft.json")).
	    Debounce(200 * time.Millisecond)
	if err := follower.Start(ctx); err != nil {
	    log.Printf("prefill failed: %v", err)
	}

For deterministic tests, pair NewSyncChannelFeed with SyncMode and pump
documents through Process.

# Observability

Store, adapter, and feed activity is emitted as capitan signals
(StoreWriteApplied, AdapterWriteSuppressed, FeedApplied, ...) and
surfaced through the MetricsProvider interface. Recent write failures
are kept in an error history ring sized by ErrorHistorySize.

The package is built on top of:
  - pipz: For composable write pipelines
  - gjson/sjson: For dot-addressed tree reads and writes
  - capitan: For signal-based observability
  - clockz: For testable time
*/
package bindit
