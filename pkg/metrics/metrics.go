// Package metrics exposes Prometheus counters and gauges for the
// spinel host connection, satisfying the host.Metrics interface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector implements host.Metrics on top of client_golang.
type Collector struct {
	framesSent     prometheus.Counter
	framesReceived prometheus.Counter
	crcErrors      prometheus.Counter
	resyncs        prometheus.Counter
	dropped        *prometheus.CounterVec
	pending        prometheus.Gauge
}

// New constructs a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spinel_frames_sent_total",
			Help: "Number of Spinel frames written to the transport.",
		}),
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spinel_frames_received_total",
			Help: "Number of Spinel frames successfully decoded from the transport.",
		}),
		crcErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spinel_hdlc_crc_errors_total",
			Help: "Number of HDLC frames rejected for a CRC mismatch.",
		}),
		resyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spinel_hdlc_resync_total",
			Help: "Number of times the stream decoder discarded a malformed or garbage frame to resynchronise.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spinel_broadcast_dropped_total",
			Help: "Number of broadcast frames dropped because a subscriber lagged.",
		}, []string{"bus"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spinel_pending_requests",
			Help: "Current occupancy of the transaction id table.",
		}),
	}
	reg.MustRegister(c.framesSent, c.framesReceived, c.crcErrors, c.resyncs, c.dropped, c.pending)
	return c
}

func (c *Collector) FrameSent()     { c.framesSent.Inc() }
func (c *Collector) FrameReceived() { c.framesReceived.Inc() }
func (c *Collector) CRCError()      { c.crcErrors.Inc() }
func (c *Collector) Resync()        { c.resyncs.Inc() }

func (c *Collector) BroadcastDropped(busName string) {
	c.dropped.WithLabelValues(busName).Inc()
}

func (c *Collector) PendingRequests(n int) {
	c.pending.Set(float64(n))
}
