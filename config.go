package bindit

import (
	"context"
	"time"
)

// Transform converts an incoming value into its stored form. Returning an
// error aborts the write before anything is committed. Transforms run on
// the writer's goroutine and must not retain v.
type Transform func(ctx context.Context, v any) (any, error)

// Validator judges a stored value. A nil return means the value is
// acceptable; otherwise the error's message is the user-facing
// explanation. Validation never blocks a write.
type Validator func(v any) error

// ValidationTiming selects when a path's validation error becomes visible
// to the rendering layer. Values are always validated eagerly; timing
// gates visibility only.
type ValidationTiming int

const (
	// TimingOnTouch shows errors once the field has been interacted
	// with. This is the zero value and the default policy.
	TimingOnTouch ValidationTiming = iota
	// TimingOnChange shows errors immediately, on every value.
	TimingOnChange
	// TimingOnSubmit shows errors only after a submission attempt.
	TimingOnSubmit
)

// String returns a human-readable timing name.
func (t ValidationTiming) String() string {
	switch t {
	case TimingOnTouch:
		return "on-touch"
	case TimingOnChange:
		return "on-change"
	case TimingOnSubmit:
		return "on-submit"
	default:
		return "unknown"
	}
}

// Visible reports whether a validation error should be shown given the
// field's interaction flags.
func (t ValidationTiming) Visible(touched, submitAttempted bool) bool {
	switch t {
	case TimingOnChange:
		return true
	case TimingOnSubmit:
		return submitAttempted
	default:
		return touched
	}
}

// Config is the per-path binding configuration registered with a store.
// The zero value is a plain passthrough binding: no transform, always
// valid, errors shown on touch.
type Config struct {
	// Transform converts written values before storage. Nil stores the
	// input as given.
	Transform Transform

	// Validator judges stored values. Nil means always valid.
	Validator Validator

	// Debounce declares the coalescing interval for rapid updates on
	// this path. Direct writes are never deferred; feed followers and
	// hosts consult the declared interval when they batch.
	Debounce time.Duration

	// ApplyImmediately asks hosts to commit on every keystroke rather
	// than on change. It is surfaced through control props; adapters
	// treat change and input events identically either way.
	ApplyImmediately bool

	// Timing selects the validation-visibility policy.
	Timing ValidationTiming
}
