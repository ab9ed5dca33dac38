package bindit

import "github.com/zoobzio/capitan"

// Store write signals.
var (
	// StoreWriteApplied is emitted after a value is committed and its
	// subscribers notified.
	StoreWriteApplied = capitan.NewSignal(
		"bindit.store.write.applied",
		"Value committed and subscribers notified",
	)

	// StoreWriteRejected is emitted when a write aborts before commit.
	StoreWriteRejected = capitan.NewSignal(
		"bindit.store.write.rejected",
		"Write aborted without commit",
	)

	// StoreBatchFlushed is emitted when a batch scope exits and its
	// coalesced notifications fire.
	StoreBatchFlushed = capitan.NewSignal(
		"bindit.store.batch.flushed",
		"Batch scope exited, coalesced notifications fired",
	)
)

// Input adapter signals.
var (
	// AdapterStateChanged is emitted when an adapter transitions between
	// composition states.
	AdapterStateChanged = capitan.NewSignal(
		"bindit.adapter.state.changed",
		"Adapter composition state transition",
	)

	// AdapterWriteSuppressed is emitted when a raw event is withheld
	// under the platform composition rule.
	AdapterWriteSuppressed = capitan.NewSignal(
		"bindit.adapter.write.suppressed",
		"Raw event suppressed during composition",
	)
)

// Feed signals.
var (
	// FeedApplied is emitted when a feed document is decoded and its
	// leaves are written to the store.
	FeedApplied = capitan.NewSignal(
		"bindit.feed.applied",
		"Feed document applied to the store",
	)

	// FeedRejected is emitted when a feed document cannot be decoded or
	// one of its writes fails.
	FeedRejected = capitan.NewSignal(
		"bindit.feed.rejected",
		"Feed document rejected",
	)

	// FollowerStarted is emitted when a Follower begins consuming its
	// feed.
	FollowerStarted = capitan.NewSignal(
		"bindit.follower.started",
		"Follower consuming feed",
	)

	// FollowerStopped is emitted when a Follower stops consuming.
	FollowerStopped = capitan.NewSignal(
		"bindit.follower.stopped",
		"Follower stopped consuming feed",
	)
)
