package bindit

import (
	"context"
	"time"

	"github.com/spf13/cast"
)

// FieldConfig is the typed counterpart of Config, used at the
// binding-construction boundary. T parameterizes the transform output
// and validator input; stored values themselves stay in canonical tree
// form, so numbers round-trip as float64 regardless of T.
type FieldConfig[T any] struct {
	// Transform converts raw written values into T before storage.
	Transform func(ctx context.Context, raw any) (T, error)

	// Validate judges stored values after coercion to T.
	Validate func(v T) error

	// Debounce declares the coalescing interval for rapid updates.
	Debounce time.Duration

	// ApplyImmediately asks hosts to commit on every keystroke.
	ApplyImmediately bool

	// Timing selects the validation-visibility policy.
	Timing ValidationTiming
}

// lower converts the typed configuration into the dynamic form the
// store registers.
func (c FieldConfig[T]) lower() Config {
	cfg := Config{
		Debounce:         c.Debounce,
		ApplyImmediately: c.ApplyImmediately,
		Timing:           c.Timing,
	}
	if c.Transform != nil {
		transform := c.Transform
		cfg.Transform = func(ctx context.Context, v any) (any, error) {
			out, err := transform(ctx, v)
			if err != nil {
				return nil, err
			}
			return out, nil
		}
	}
	if c.Validate != nil {
		validate := c.Validate
		cfg.Validator = func(v any) error {
			tv, _ := coerce[T](v)
			return validate(tv)
		}
	}
	return cfg
}

// Field is a typed facade over a Binding. Reads coerce the canonical
// tree value to T; absent or incompatible values yield the zero value.
type Field[T any] struct {
	Binding
}

// NewField registers cfg at path on s and returns the typed view.
func NewField[T any](s *Store, path string, cfg FieldConfig[T]) Field[T] {
	return Field[T]{s.Bind(path, cfg.lower())}
}

// Value returns the current value coerced to T.
func (f Field[T]) Value() T {
	v, ok := f.Binding.Value()
	if !ok {
		var zero T
		return zero
	}
	out, _ := coerce[T](v)
	return out
}

// Set writes v through the path's write pipeline.
func (f Field[T]) Set(ctx context.Context, v T) error {
	return f.Binding.Set(ctx, v)
}

// Subscribe observes writes to the bound path, delivering committed
// values coerced to T.
func (f Field[T]) Subscribe(fn func(value T, path string)) func() {
	return f.Binding.Subscribe(func(v any, path string) {
		tv, _ := coerce[T](v)
		fn(tv, path)
	})
}

// Derive registers the typed sibling slot (see Binding.Derive).
func (f Field[T]) Derive(fn func(T) T) Field[T] {
	b := f.Binding.Derive(func(_ context.Context, v any) (any, error) {
		tv, _ := coerce[T](v)
		return fn(tv), nil
	})
	return Field[T]{b}
}

// coerce converts a canonical tree value into T. Scalar kinds go through
// cast so float64 numbers satisfy int fields and numeric strings satisfy
// number fields; other kinds require an exact type match.
func coerce[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}

	var out T
	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = cast.ToStringE(v)
	case *float64:
		*p, err = cast.ToFloat64E(v)
	case *int:
		*p, err = cast.ToIntE(v)
	case *int64:
		*p, err = cast.ToInt64E(v)
	case *bool:
		*p, err = cast.ToBoolE(v)
	case *time.Duration:
		*p, err = cast.ToDurationE(v)
	default:
		var zero T
		return zero, false
	}
	if err != nil {
		var zero T
		return zero, false
	}
	return out, true
}
