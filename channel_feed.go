package bindit

import "context"

// ChannelFeed wraps an existing byte channel as a Feed.
// Useful for testing and custom sources that already produce bytes.
type ChannelFeed struct {
	ch   <-chan []byte
	sync bool
}

// NewChannelFeed creates a ChannelFeed that forwards values from the
// given channel through an internal goroutine.
func NewChannelFeed(ch <-chan []byte) *ChannelFeed {
	return &ChannelFeed{ch: ch, sync: false}
}

// NewSyncChannelFeed creates a ChannelFeed that returns the source
// channel directly without an intermediate goroutine.
// Use with Follower.SyncMode() for deterministic testing.
func NewSyncChannelFeed(ch <-chan []byte) *ChannelFeed {
	return &ChannelFeed{ch: ch, sync: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (f *ChannelFeed) Watch(ctx context.Context) (<-chan []byte, error) {
	if f.sync {
		return f.ch, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-f.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
