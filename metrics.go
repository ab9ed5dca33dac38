package bindit

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key store and adapter events.
type MetricsProvider interface {
	// OnWriteSuccess is called after a value is committed and its
	// subscribers notified. Duration covers transform through notification.
	OnWriteSuccess(path string, duration time.Duration)

	// OnWriteFailure is called when a write aborts at any stage.
	// Stage indicates where the failure occurred: "transform", "commit",
	// "middleware", or "feed".
	OnWriteFailure(path, stage string, duration time.Duration)

	// OnNotify is called once per notification fan-out with the number
	// of subscribers invoked for the path.
	OnNotify(path string, subscribers int)

	// OnAdapterEvent is called for each raw event an adapter handles.
	// Kind names the event ("change", "input", "compositionstart", ...);
	// suppressed marks events withheld under the composition rule.
	OnAdapterEvent(kind string, suppressed bool)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnWriteSuccess(_ string, _ time.Duration)    {}
func (NoOpMetricsProvider) OnWriteFailure(_, _ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnNotify(_ string, _ int)                    {}
func (NoOpMetricsProvider) OnAdapterEvent(_ string, _ bool)             {}
