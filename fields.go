package bindit

import "github.com/zoobzio/capitan"

// Field keys for store, adapter, and feed events.
var (
	// KeyPath is the tree path an event concerns.
	KeyPath = capitan.NewStringKey("path")

	// KeyStage is the pipeline stage where a write failed.
	KeyStage = capitan.NewStringKey("stage")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyOldState is the adapter state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the adapter state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyPlatform is the platform classification driving a suppression
	// decision.
	KeyPlatform = capitan.NewStringKey("platform")

	// KeyEvent is the raw event kind an adapter handled.
	KeyEvent = capitan.NewStringKey("event")

	// KeySubscribers is the number of subscribers notified for a path.
	KeySubscribers = capitan.NewIntKey("subscribers")

	// KeyPaths is the number of paths touched by a batch or feed apply.
	KeyPaths = capitan.NewIntKey("paths")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
