package signaling

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on an isolated
// registry so they never collide with the global default registry and
// each test gets its own instance.
type Metrics struct {
	Registry *prometheus.Registry

	Rooms              prometheus.Gauge
	Peers              prometheus.Gauge
	ConnectsTotal      prometheus.Counter
	RelayedFramesTotal prometheus.Counter
	DroppedFramesTotal *prometheus.CounterVec
	EvictionsTotal     prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	// Standard Go runtime + process metrics
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "driftdrop_rooms",
			Help: "Number of non-empty rooms.",
		}),
		Peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "driftdrop_peers",
			Help: "Number of connected peer sessions.",
		}),
		ConnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdrop_connects_total",
			Help: "Total accepted websocket connections.",
		}),
		RelayedFramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdrop_relayed_frames_total",
			Help: "Total frames relayed between peers.",
		}),
		DroppedFramesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "driftdrop_dropped_frames_total",
				Help: "Total inbound frames dropped, by reason.",
			},
			[]string{"reason"},
		),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdrop_evictions_total",
			Help: "Total sessions evicted by the keepalive scheduler.",
		}),
	}

	reg.MustRegister(
		m.Rooms,
		m.Peers,
		m.ConnectsTotal,
		m.RelayedFramesTotal,
		m.DroppedFramesTotal,
		m.EvictionsTotal,
	)
	return m
}

// Dropped counts one dropped inbound frame.
func (m *Metrics) Dropped(reason string) {
	m.DroppedFramesTotal.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
