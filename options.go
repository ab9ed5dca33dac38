package bindit

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Option configures the write-processing pipeline of a Store. Pipeline
// options wrap the core write stages (transform, commit, notify) with
// middleware that observes or adjusts requests before they commit.
//
// Instance configuration (codec, clock, metrics, etc.) is handled via
// chainable methods on the Store before it is shared.
type Option func(pipz.Chainable[*WriteRequest]) pipz.Chainable[*WriteRequest]

// buildPipeline wraps the core write sequence with pipeline options.
func buildPipeline(core pipz.Chainable[*WriteRequest], opts []Option) pipz.Chainable[*WriteRequest] {
	pipeline := core
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------

// WithMiddleware wraps the write pipeline with a sequence of processors.
// Processors execute in order, with the core write stages last, so
// middleware sees the raw input value before the path transform runs.
//
// Use the Use* functions to create processors for common patterns, or
// provide custom pipz.Chainable implementations directly.
//
// Example:
//
//	store := bindit.New(
//	    bindit.WithMiddleware(
//	        bindit.UseEffect("audit", auditFn),
//	        bindit.UseApply("sanitize", sanitizeFn),
//	    ),
//	)
func WithMiddleware(processors ...pipz.Chainable[*WriteRequest]) Option {
	return func(p pipz.Chainable[*WriteRequest]) pipz.Chainable[*WriteRequest] {
		all := make([]pipz.Chainable[*WriteRequest], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// WithErrorHandler adds error observation to the write pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates to the caller and the error history.
// Use this for observability, not recovery.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*WriteRequest]]) Option {
	return func(p pipz.Chainable[*WriteRequest]) pipz.Chainable[*WriteRequest] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors - Adapters (Use*)
// -----------------------------------------------------------------------------
// These create processors for use inside WithMiddleware. They transform
// or observe the write request as it flows toward the commit stage.

// UseTransform creates a processor that transforms the request.
// Cannot fail. Use for pure adjustments that always succeed.
func UseTransform(name string, fn func(context.Context, *WriteRequest) *WriteRequest) pipz.Chainable[*WriteRequest] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that can transform the request and fail.
// A returned error vetoes the write before anything commits.
func UseApply(name string, fn func(context.Context, *WriteRequest) (*WriteRequest, error)) pipz.Chainable[*WriteRequest] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that performs a side effect. The request
// passes through unchanged. Use for logging, metrics, or notifications
// that should not affect the written value.
func UseEffect(name string, fn func(context.Context, *WriteRequest) error) pipz.Chainable[*WriteRequest] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseMutate creates a processor that conditionally transforms the
// request. The transformer is only applied if the condition returns true.
func UseMutate(name string, transformer func(context.Context, *WriteRequest) *WriteRequest, condition func(context.Context, *WriteRequest) bool) pipz.Chainable[*WriteRequest] {
	return pipz.Mutate(pipz.Name(name), transformer, condition)
}

// UseEnrich creates a processor that attempts optional enhancement.
// If the enrichment fails, the error is logged but the write continues
// with the original request. Use for non-critical enhancements.
func UseEnrich(name string, fn func(context.Context, *WriteRequest) (*WriteRequest, error)) pipz.Chainable[*WriteRequest] {
	return pipz.Enrich(pipz.Name(name), fn)
}

// UseFilter wraps a processor with a condition. If the condition returns
// false, the request passes through unchanged. Use to scope middleware
// to a subset of paths.
func UseFilter(name string, condition func(context.Context, *WriteRequest) bool, processor pipz.Chainable[*WriteRequest]) pipz.Chainable[*WriteRequest] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}
