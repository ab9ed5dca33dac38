package bindit

import "github.com/zoobzio/pipz"

// WriteRequest carries a single write through the store pipeline. User
// middleware sees it before the transform stage and may adjust Value or
// veto the write by returning an error.
type WriteRequest struct {
	// Path is the destination path of the write.
	Path string

	// Input is the caller-supplied value, untouched.
	Input any

	// Value is the value as it flows through middleware and the
	// configured transform. The commit stage stores whatever it holds.
	Value any

	// Committed is the canonical stored value after commit, exactly as
	// subsequent reads and subscribers observe it. Empty until the
	// commit stage runs.
	Committed any

	// Config is the registered configuration for Path. The zero Config
	// when the path has none.
	Config Config

	// stage records the pipeline stage that failed, for error reporting.
	stage string

	// batch routes the notification into an open batch scope.
	batch *Batch
}

// Terminal is the final processing stage in a store write pipeline.
// It receives the WriteRequest after all middleware has processed it.
type Terminal pipz.Chainable[*WriteRequest]
