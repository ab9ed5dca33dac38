package bindit

import (
	"fmt"
	"sync"
	"time"
)

// WriteError records a single failed store operation.
type WriteError struct {
	// Path is the target path of the failed write. Empty for feed
	// decode failures, which have no single path.
	Path string

	// Stage identifies where the failure occurred: "transform",
	// "commit", "middleware", or "feed".
	Stage string

	// Err is the underlying error.
	Err error

	// At is when the failure was recorded, per the store clock.
	At time.Time
}

// Error implements the error interface.
func (e WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap exposes the underlying error for errors.Is and errors.As.
func (e WriteError) Unwrap() error {
	return e.Err
}

// errorRing is a thread-safe ring buffer for storing recent write errors.
type errorRing struct {
	mu     sync.RWMutex
	errors []WriteError
	size   int
	head   int
	count  int
}

// newErrorRing creates a new error ring buffer with the given capacity.
// If size is 0, the ring buffer is disabled.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{
		errors: make([]WriteError, size),
		size:   size,
	}
}

// push adds an error to the ring buffer.
func (r *errorRing) push(e WriteError) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[r.head] = e
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// clear removes all errors from the ring buffer.
func (r *errorRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.errors {
		r.errors[i] = WriteError{}
	}
	r.head = 0
	r.count = 0
}

// all returns all errors in the ring buffer, oldest first.
func (r *errorRing) all() []WriteError {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	result := make([]WriteError, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.errors[(start+i)%r.size]
	}
	return result
}
