// Package bindtest provides test utilities and helpers for code built on
// bindit stores and adapters.
package bindtest

import (
	"sync"
	"testing"
	"time"

	"github.com/M4T1SS3/bindit"
)

// Recorder collects the notifications delivered to a subscriber, in
// order. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	values []any
	paths  []string
}

// Subscriber returns a bindit.Subscriber that records every delivery.
func (r *Recorder) Subscriber() bindit.Subscriber {
	return func(value any, path string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.values = append(r.values, value)
		r.paths = append(r.paths, path)
	}
}

// Count returns the number of notifications recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Values returns a copy of the recorded values, oldest first.
func (r *Recorder) Values() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Paths returns a copy of the recorded paths, oldest first.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Last returns the most recent recorded value, or false when nothing has
// been recorded.
func (r *Recorder) Last() (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return nil, false
	}
	return r.values[len(r.values)-1], true
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = nil
	r.paths = nil
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// RequireValue fails the test immediately unless path holds want.
func RequireValue(t *testing.T, s *bindit.Store, path string, want any) {
	t.Helper()
	got, ok := s.Read(path)
	if !ok {
		t.Fatalf("expected %v at %s, path is absent", want, path)
	}
	if got != want {
		t.Fatalf("expected %v at %s, got %v", want, path, got)
	}
}

// RequireAbsent fails the test immediately if path exists.
func RequireAbsent(t *testing.T, s *bindit.Store, path string) {
	t.Helper()
	if got, ok := s.Read(path); ok {
		t.Fatalf("expected %s to be absent, got %v", path, got)
	}
}

// TextTarget builds a text-input target with the cursor at the end of
// value.
func TextTarget(value string) bindit.Target {
	end := len([]rune(value))
	return bindit.Target{
		Kind:           bindit.KindText,
		Value:          value,
		SelectionStart: end,
		SelectionEnd:   end,
	}
}

// NumberTarget builds a number-input target.
func NumberTarget(value string) bindit.Target {
	end := len([]rune(value))
	return bindit.Target{
		Kind:           bindit.KindNumber,
		Value:          value,
		SelectionStart: end,
		SelectionEnd:   end,
	}
}

// CheckboxTarget builds a checkbox target.
func CheckboxTarget(checked bool) bindit.Target {
	return bindit.Target{Kind: bindit.KindCheckbox, Checked: checked}
}

// RadioTarget builds a radio-option target.
func RadioTarget(value string, checked bool) bindit.Target {
	return bindit.Target{Kind: bindit.KindRadio, Value: value, Checked: checked}
}

// SelectTarget builds a select target.
func SelectTarget(value string) bindit.Target {
	return bindit.Target{Kind: bindit.KindSelect, Value: value}
}

// FakeControl implements bindit.SelectionSetter and records the last
// selection range applied to it.
type FakeControl struct {
	Start, End int
	Calls      int
	Err        error
}

// SetSelectionRange records the requested range and returns Err.
func (c *FakeControl) SetSelectionRange(start, end int) error {
	c.Start, c.End = start, end
	c.Calls++
	return c.Err
}
