// Package metrics holds the Prometheus collector for the tracker and
// the HTTP server. A dedicated registry keeps the exposition free of
// the default Go runtime collectors registered by other libraries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	TrackedJourneys prometheus.Gauge

	PollsTotal     *prometheus.CounterVec // provider label: trenitalia|italo
	PollErrors     *prometheus.CounterVec
	PollDuration   prometheus.Histogram
	DeriveFailures prometheus.Counter

	Replications      prometheus.Counter
	ReplicationErrors prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	PollInterval prometheus.Gauge // seconds
}

func NewCollector(pollInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TrackedJourneys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railtrack_tracked_journeys",
			Help: "Number of journeys currently being polled.",
		}),
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railtrack_polls_total",
			Help: "Total upstream status polls.",
		}, []string{"provider"}),
		PollErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railtrack_poll_errors_total",
			Help: "Total upstream polls that failed.",
		}, []string{"provider"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railtrack_poll_duration_seconds",
			Help:    "Duration of one fetch and derive cycle.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		DeriveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railtrack_derive_failures_total",
			Help: "Total polls whose payload could not be derived into a journey.",
		}),
		Replications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railtrack_replications_total",
			Help: "Total journeys replicated onto another date.",
		}),
		ReplicationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railtrack_replication_errors_total",
			Help: "Total replications that kept a stale poll identifier.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railtrack_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railtrack_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railtrack_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PollInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railtrack_poll_interval_seconds",
			Help: "Configured poll interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.TrackedJourneys,
		c.PollsTotal, c.PollErrors, c.PollDuration, c.DeriveFailures,
		c.Replications, c.ReplicationErrors,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.PollInterval,
	)

	c.PollInterval.Set(pollInterval.Seconds())
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// NATSSetConnected satisfies publisher.Metrics.
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

// NATSPublishedInc satisfies publisher.Metrics.
func (c *Collector) NATSPublishedInc() { c.NATSPublished.Inc() }

// NATSPublishErrInc satisfies publisher.Metrics.
func (c *Collector) NATSPublishErrInc() { c.NATSPublishErrs.Inc() }
