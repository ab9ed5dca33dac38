package bindit

import "context"

// derivedSuffix is appended to a binding's path to name its derived
// sibling slot.
const derivedSuffix = "_transformed"

// Binding is a live view over one path of a Store. The zero Binding is
// not usable; obtain one from Store.Bind or Store.View. Bindings are
// lightweight values and may be copied.
type Binding struct {
	store *Store
	path  string
}

// Path returns the bound path.
func (b Binding) Path() string {
	return b.path
}

// Store returns the owning store.
func (b Binding) Store() *Store {
	return b.store
}

// Value returns the current canonical value at the bound path and
// whether the path exists.
func (b Binding) Value() (any, bool) {
	return b.store.Read(b.path)
}

// Set writes v through the path's write pipeline.
func (b Binding) Set(ctx context.Context, v any) error {
	return b.store.Write(ctx, b.path, v)
}

// Subscribe observes writes to the bound path. It returns the
// unsubscribe function for this registration.
func (b Binding) Subscribe(fn Subscriber) func() {
	return b.store.Subscribe(b.path, fn)
}

// Config returns the registered configuration for the bound path.
func (b Binding) Config() Config {
	return b.store.configFor(b.path)
}

// Err returns the validator's verdict on the current value: nil when
// valid or unvalidated, otherwise the user-facing message. Validation is
// computed on read; it never blocks a write.
func (b Binding) Err() error {
	cfg := b.store.configFor(b.path)
	if cfg.Validator == nil {
		return nil
	}
	v, _ := b.store.Read(b.path)
	return cfg.Validator(v)
}

// Valid reports whether the current value passes the path's validator.
// Paths without a validator are always valid.
func (b Binding) Valid() bool {
	return b.Err() == nil
}

// Derive registers the sibling slot "<path>_transformed", configured
// like the parent but with f composed after the parent's transform, and
// returns its binding. The slot is independent storage, not a
// projection: it starts absent, and neither side's writes flow to the
// other.
func (b Binding) Derive(f Transform) Binding {
	cfg := b.store.configFor(b.path)
	if cfg.Transform != nil {
		cfg.Transform = Pipe(cfg.Transform, f)
	} else {
		cfg.Transform = f
	}
	return b.store.Bind(b.path+derivedSuffix, cfg)
}
