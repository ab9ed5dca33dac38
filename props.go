package bindit

import (
	"context"
	"strings"

	"github.com/spf13/cast"
)

// TargetHandler is the shape of raw event handlers carried by control
// props. Hosts fill a Target from the platform event and invoke the
// handler; a non-nil error is the write error for that event.
type TargetHandler func(ctx context.Context, t Target) error

// FocusHandler is the shape of focus and blur handlers carried by
// control props.
type FocusHandler func(ctx context.Context)

// CompositionStartHandler is the shape of the composition-start handler.
// Opening a session never writes, so it cannot fail.
type CompositionStartHandler func(ctx context.Context, t Target)

// TextInputProps is the attribute bundle for text-like controls: text
// inputs, number inputs, and textareas. Spread it onto the control.
type TextInputProps struct {
	// Value is the current stored value in display form.
	Value string

	// OnChange and OnInput are the raw event handlers. Both run the
	// same reconciliation; wire whichever events the host delivers.
	OnChange TargetHandler
	OnInput  TargetHandler

	// OnCompositionStart and OnCompositionEnd bracket IME sessions.
	OnCompositionStart CompositionStartHandler
	OnCompositionEnd   TargetHandler

	// OnFocus and OnBlur track interaction for validation visibility.
	OnFocus FocusHandler
	OnBlur  FocusHandler

	// Ref restores the recorded cursor position after a re-render.
	Ref func(ctrl SelectionSetter)

	// Invalid is set when a validation error is visible under the
	// path's timing policy. ErrorID then references the element that
	// renders the message; hosts wire it to aria-describedby.
	Invalid bool
	ErrorID string

	// ApplyImmediately is the path's declared keystroke-commit
	// preference, for hosts that distinguish input from change.
	ApplyImmediately bool
}

// CheckboxProps is the attribute bundle for checkbox controls.
type CheckboxProps struct {
	// Checked is the current stored toggle state.
	Checked bool

	OnChange TargetHandler
	OnFocus  FocusHandler
	OnBlur   FocusHandler

	Invalid bool
	ErrorID string
}

// RadioProps is the attribute bundle for one option of a radio group.
type RadioProps struct {
	// Value is the option this control represents.
	Value string

	// Checked reports whether the stored value is this option.
	Checked bool

	OnChange TargetHandler
	OnFocus  FocusHandler
	OnBlur   FocusHandler

	Invalid bool
	ErrorID string
}

// SelectProps is the attribute bundle for select controls.
type SelectProps struct {
	// Value is the currently stored option value.
	Value string

	OnChange TargetHandler
	OnFocus  FocusHandler
	OnBlur   FocusHandler

	Invalid bool
	ErrorID string
}

// TextInputProps builds the bundle for a text, number, or textarea
// control bound through this adapter. The bundle reflects the state at
// call time; rebuild it after each write.
func (a *Adapter) TextInputProps() TextInputProps {
	invalid := a.visiblyInvalid()
	p := TextInputProps{
		Value:              a.displayValue(),
		OnChange:           a.HandleChange,
		OnInput:            a.HandleInput,
		OnCompositionStart: a.HandleCompositionStart,
		OnCompositionEnd:   a.HandleCompositionEnd,
		OnFocus:            a.HandleFocus,
		OnBlur:             a.HandleBlur,
		Ref:                a.RestoreSelection,
		Invalid:            invalid,
		ApplyImmediately:   a.binding.Config().ApplyImmediately,
	}
	if invalid {
		p.ErrorID = a.errorID()
	}
	return p
}

// CheckboxProps builds the bundle for a checkbox control bound through
// this adapter.
func (a *Adapter) CheckboxProps() CheckboxProps {
	invalid := a.visiblyInvalid()
	v, _ := a.binding.Value()
	p := CheckboxProps{
		Checked:  cast.ToBool(v),
		OnChange: a.HandleChange,
		OnFocus:  a.HandleFocus,
		OnBlur:   a.HandleBlur,
		Invalid:  invalid,
	}
	if invalid {
		p.ErrorID = a.errorID()
	}
	return p
}

// RadioProps builds the bundle for the radio option carrying value.
func (a *Adapter) RadioProps(value string) RadioProps {
	invalid := a.visiblyInvalid()
	p := RadioProps{
		Value:    value,
		Checked:  a.displayValue() == value,
		OnChange: a.HandleChange,
		OnFocus:  a.HandleFocus,
		OnBlur:   a.HandleBlur,
		Invalid:  invalid,
	}
	if invalid {
		p.ErrorID = a.errorID()
	}
	return p
}

// SelectProps builds the bundle for a select control bound through this
// adapter.
func (a *Adapter) SelectProps() SelectProps {
	invalid := a.visiblyInvalid()
	p := SelectProps{
		Value:    a.displayValue(),
		OnChange: a.HandleChange,
		OnFocus:  a.HandleFocus,
		OnBlur:   a.HandleBlur,
		Invalid:  invalid,
	}
	if invalid {
		p.ErrorID = a.errorID()
	}
	return p
}

// visiblyInvalid reports whether a validation error is both present and
// visible under the timing policy.
func (a *Adapter) visiblyInvalid() bool {
	return a.ShowError() && !a.binding.Valid()
}

// displayValue renders the stored value for control attributes. Absent
// paths display as empty.
func (a *Adapter) displayValue() string {
	v, ok := a.binding.Value()
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// errorID derives a stable element id for the error message from the
// bound path, e.g. "user.profile.name" yields
// "user-profile-name-error".
func (a *Adapter) errorID() string {
	var b strings.Builder
	for _, r := range a.binding.Path() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	b.WriteString("-error")
	return b.String()
}
