package bindit

import "context"

// Feed observes an external source of tree documents and emits raw bytes
// on a channel. Feeds drive prefill and live synchronization: a Follower
// decodes each emission through the store codec and applies its leaves
// as a batched write.
//
// Implementations must emit the current value immediately upon Watch()
// being called to support initial prefill.
type Feed interface {
	// Watch begins observing the source and returns a channel that
	// emits raw bytes when the source changes. The channel is closed
	// when the context is canceled or an unrecoverable error occurs.
	//
	// Implementations should emit the current value immediately to
	// support initial prefill.
	Watch(ctx context.Context) (<-chan []byte, error)
}
