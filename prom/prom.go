// Package prom provides a Prometheus-backed MetricsProvider for bindit
// stores.
//
// Register a provider on a store and expose the registry however your
// application serves metrics:
//
//	provider := prom.New(prometheus.DefaultRegisterer)
//	store := bindit.New().Metrics(provider)
//	http.Handle("/metrics", promhttp.Handler())
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/M4T1SS3/bindit"
)

// Provider implements bindit.MetricsProvider with Prometheus collectors.
type Provider struct {
	writes        *prometheus.CounterVec
	writeDuration *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	adapterEvents *prometheus.CounterVec
}

// New creates a Provider and registers its collectors with reg. A nil
// reg uses the default registerer. Registration panics on collision, so
// create at most one Provider per registry.
func New(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Provider{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindit_store_writes_total",
				Help: "Write outcomes by path, result, and failing stage",
			},
			[]string{"path", "result", "stage"},
		),
		writeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "bindit_store_write_duration_seconds",
				Help: "Duration of applied writes, transform through notification",
			},
			[]string{"path"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindit_store_notifications_total",
				Help: "Subscriber callbacks invoked per path",
			},
			[]string{"path"},
		),
		adapterEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bindit_adapter_events_total",
				Help: "Raw events handled by adapters, by kind and suppression",
			},
			[]string{"kind", "suppressed"},
		),
	}

	reg.MustRegister(p.writes, p.writeDuration, p.notifications, p.adapterEvents)
	return p
}

// OnWriteSuccess records an applied write and its duration.
func (p *Provider) OnWriteSuccess(path string, duration time.Duration) {
	p.writes.WithLabelValues(path, "applied", "").Inc()
	p.writeDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// OnWriteFailure records a rejected write and the stage that failed.
func (p *Provider) OnWriteFailure(path, stage string, _ time.Duration) {
	p.writes.WithLabelValues(path, "rejected", stage).Inc()
}

// OnNotify records subscriber callbacks invoked for a path.
func (p *Provider) OnNotify(path string, subscribers int) {
	p.notifications.WithLabelValues(path).Add(float64(subscribers))
}

// OnAdapterEvent records a raw adapter event.
func (p *Provider) OnAdapterEvent(kind string, suppressed bool) {
	label := "false"
	if suppressed {
		label = "true"
	}
	p.adapterEvents.WithLabelValues(kind, label).Inc()
}

// Ensure Provider implements bindit.MetricsProvider.
var _ bindit.MetricsProvider = (*Provider)(nil)
