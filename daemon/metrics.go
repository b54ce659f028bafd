package daemon

import "github.com/prometheus/client_golang/prometheus"

// Namespace for every horsetab metric.
const Namespace = "horsetab"

// Metrics holds the daemon's Prometheus instrumentation, registered on
// its own registry (mirroring the pack's convention of a dedicated
// registry per service rather than the global default one).
type Metrics struct {
	Registry            *prometheus.Registry
	CommandsDispatched  prometheus.Counter
	AutomatonMatches    prometheus.Counter
	ProcessesRunning    prometheus.Gauge
	SubscribersGauge    prometheus.Gauge
	UnreachableOnInstal prometheus.Gauge
}

// NewMetrics builds and registers the daemon's metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		CommandsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commands_dispatched_total",
			Help:      "Total number of commands spawned by matched sequences.",
		}),
		AutomatonMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "automaton_matches_total",
			Help:      "Total number of automaton Put calls that returned a match.",
		}),
		ProcessesRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "processes_running",
			Help:      "Number of child processes currently tracked as running.",
		}),
		SubscribersGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "subscribers_connected",
			Help:      "Number of TCP event-bus subscribers currently connected.",
		}),
		UnreachableOnInstal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "unreachable_sequences",
			Help:      "Number of unreachable sequences reported by the last install.",
		}),
	}

	reg.MustRegister(
		m.CommandsDispatched,
		m.AutomatonMatches,
		m.ProcessesRunning,
		m.SubscribersGauge,
		m.UnreachableOnInstal,
	)

	return m
}
