package bindit

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Adapter reconciles raw platform input events into writes on a binding.
// One adapter serves one live control instance; its composition state,
// interaction flags, and selection memory are all per-instance.
//
// An adapter is driven from the host's event dispatch and is not safe
// for concurrent use.
type Adapter struct {
	binding  Binding
	platform Platform

	state    AdapterState
	lastText string

	selStart int
	selEnd   int

	touched         bool
	submitAttempted bool
}

// NewAdapter creates an adapter for binding on the given platform. Use
// ClassifyUserAgent when only a user-agent string is available.
func NewAdapter(binding Binding, platform Platform) *Adapter {
	return &Adapter{binding: binding, platform: platform}
}

// Binding returns the bound view this adapter writes to.
func (a *Adapter) Binding() Binding {
	return a.binding
}

// Platform returns the platform classification the adapter was built
// with.
func (a *Adapter) Platform() Platform {
	return a.platform
}

// State returns the current composition state.
func (a *Adapter) State() AdapterState {
	return a.state
}

// Composing reports whether a composition session is open.
func (a *Adapter) Composing() bool {
	return a.state == StateComposing
}

// Touched reports whether the field has ever been interacted with.
// The flag is monotonic for the adapter's lifetime.
func (a *Adapter) Touched() bool {
	return a.touched
}

// SubmitAttempted reports whether a submission attempt was recorded.
// The flag is monotonic for the adapter's lifetime.
func (a *Adapter) SubmitAttempted() bool {
	return a.submitAttempted
}

// MarkSubmitAttempted records a form submission attempt. Call it once
// per submit regardless of outcome; the flag never resets.
func (a *Adapter) MarkSubmitAttempted() {
	a.submitAttempted = true
}

// -----------------------------------------------------------------------------
// Event Handlers
// -----------------------------------------------------------------------------

// HandleCompositionStart opens a composition session and records the
// current text as the last-seen value for the suppression rule.
func (a *Adapter) HandleCompositionStart(ctx context.Context, t Target) {
	a.markEvent("compositionstart", false)
	a.recordSelection(t)
	a.lastText = t.Value
	a.setState(ctx, StateComposing)
}

// HandleCompositionEnd closes the composition session and commits the
// final composed text in a single write. The commit is unconditional:
// whatever the suppression rule withheld while composing, the finished
// composition is never lost. Number targets coerce through number
// conversion as usual.
func (a *Adapter) HandleCompositionEnd(ctx context.Context, t Target) error {
	a.markEvent("compositionend", false)
	a.recordSelection(t)
	a.setState(ctx, StateIdle)
	a.markTouched()
	return a.commitText(ctx, t)
}

// HandleChange processes a raw change event. Change and input follow
// identical reconciliation rules; see HandleInput.
func (a *Adapter) HandleChange(ctx context.Context, t Target) error {
	return a.handleRaw(ctx, "change", t)
}

// HandleInput processes a raw input event. While idle the semantic value
// is derived from the target kind and written through the binding. While
// composing, text-like events pass through the platform suppression
// rule first.
func (a *Adapter) HandleInput(ctx context.Context, t Target) error {
	return a.handleRaw(ctx, "input", t)
}

// HandleFocus marks the field as touched. No value is written.
func (a *Adapter) HandleFocus(_ context.Context) {
	a.markEvent("focus", false)
	a.markTouched()
}

// HandleBlur marks the field as touched. No value is written.
func (a *Adapter) HandleBlur(_ context.Context) {
	a.markEvent("blur", false)
	a.markTouched()
}

// handleRaw applies the composition rule, then commits the semantic
// value for the target.
func (a *Adapter) handleRaw(ctx context.Context, kind string, t Target) error {
	a.recordSelection(t)

	if a.state == StateComposing && t.Kind.textLike() {
		if a.suppress(t) {
			a.markEvent(kind, true)
			capitan.Emit(ctx, AdapterWriteSuppressed,
				KeyPath.Field(a.binding.Path()),
				KeyEvent.Field(kind),
				KeyPlatform.Field(a.platform.String()),
			)
			return nil
		}
		a.markEvent(kind, false)
		a.markTouched()
		return a.commitText(ctx, t)
	}

	a.markEvent(kind, false)
	a.markTouched()
	return a.commit(ctx, t)
}

// suppress applies the platform rule to a text event seen while
// composing.
func (a *Adapter) suppress(t Target) bool {
	switch a.platform {
	case PlatformDesktop:
		return true
	case PlatformAndroid:
		return t.Value == a.lastText
	default:
		// iOS and unclassified platforms emit composition events too
		// unreliably to withhold writes on.
		return false
	}
}

// commit derives the semantic value for the target kind and writes it.
func (a *Adapter) commit(ctx context.Context, t Target) error {
	switch t.Kind {
	case KindCheckbox:
		return a.binding.Set(ctx, t.Checked)
	case KindRadio:
		if !t.Checked {
			return nil
		}
		return a.binding.Set(ctx, t.Value)
	case KindSelect:
		return a.binding.Set(ctx, t.Value)
	default:
		return a.commitText(ctx, t)
	}
}

// commitText writes the observed text and refreshes the last-seen value.
// Number targets coerce to float64, degrading to zero for unparseable
// text.
func (a *Adapter) commitText(ctx context.Context, t Target) error {
	a.lastText = t.Value
	if t.Kind == KindNumber {
		return a.binding.Set(ctx, toNumber(t.Value))
	}
	return a.binding.Set(ctx, t.Value)
}

// setState transitions the composition state and emits on change.
func (a *Adapter) setState(ctx context.Context, next AdapterState) {
	if a.state == next {
		return
	}
	prev := a.state
	a.state = next
	capitan.Emit(ctx, AdapterStateChanged,
		KeyPath.Field(a.binding.Path()),
		KeyOldState.Field(prev.String()),
		KeyNewState.Field(next.String()),
	)
}

// markTouched flips the monotonic interaction flag.
func (a *Adapter) markTouched() {
	a.touched = true
}

// markEvent reports an adapter event to the store metrics provider.
func (a *Adapter) markEvent(kind string, suppressed bool) {
	if m := a.binding.store.metrics; m != nil {
		m.OnAdapterEvent(kind, suppressed)
	}
}

// -----------------------------------------------------------------------------
// Selection Memory
// -----------------------------------------------------------------------------

// recordSelection captures cursor offsets from text-like targets.
func (a *Adapter) recordSelection(t Target) {
	if !t.Kind.textLike() {
		return
	}
	a.selStart = t.SelectionStart
	a.selEnd = t.SelectionEnd
}

// Selection returns the last recorded cursor offsets, in runes.
func (a *Adapter) Selection() (start, end int) {
	return a.selStart, a.selEnd
}

// RestoreSelection re-applies the recorded offsets to a control after
// the host re-renders, clamped to grapheme-cluster boundaries of the
// last-seen text. Restoration is best effort: nil controls and setter
// failures are silently discarded.
func (a *Adapter) RestoreSelection(ctrl SelectionSetter) {
	if ctrl == nil {
		return
	}
	start := clampToGrapheme(a.lastText, a.selStart)
	end := clampToGrapheme(a.lastText, a.selEnd)
	if end < start {
		end = start
	}
	_ = ctrl.SetSelectionRange(start, end)
}

// -----------------------------------------------------------------------------
// Validation Visibility
// -----------------------------------------------------------------------------

// ShowError reports whether validation errors are currently visible for
// this adapter under the path's timing policy.
func (a *Adapter) ShowError() bool {
	return a.binding.Config().Timing.Visible(a.touched, a.submitAttempted)
}

// VisibleError returns the binding's validation error when the timing
// policy makes it visible, and nil otherwise. The underlying validity is
// always available through Binding().Err().
func (a *Adapter) VisibleError() error {
	if !a.ShowError() {
		return nil
	}
	return a.binding.Err()
}
