// Package metrics records Prometheus metrics for host calls.
//
// A nil *Metrics is valid and records nothing, so callers that run without
// metrics pass nil instead of branching.
package metrics

import (
	"time"

	"github.com/brettbedarf/hostfs/errno"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the host call collectors.
type Metrics struct {
	callsTotal       *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	bytesTransferred *prometheus.CounterVec
	errnoTotal       *prometheus.CounterVec
	openFDs          prometheus.Gauge
}

// New registers the collectors on reg. A nil reg returns nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	return &Metrics{
		callsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostfs_host_calls_total",
				Help: "Total number of host calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		callDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "hostfs_host_call_duration_milliseconds",
				Help: "Duration of host calls in milliseconds",
				Buckets: []float64{
					0.05, // in-memory hosts
					0.25,
					1, // local disk, warm cache
					5,
					25,
					100, // cold disk
					500,
				},
			},
			[]string{"operation"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostfs_host_bytes_total",
				Help: "Total bytes moved through host descriptors",
			},
			[]string{"direction"},
		),
		errnoTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostfs_host_errors_total",
				Help: "Failed host calls by POSIX error name; untagged failures count as UNKNOWN",
			},
			[]string{"operation", "errno"},
		),
		openFDs: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "hostfs_host_open_descriptors",
				Help: "Current number of open host descriptors",
			},
		),
	}
}

// ObserveCall records one host call of op that took d and returned err.
func (m *Metrics) ObserveCall(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		m.errnoTotal.WithLabelValues(op, errnoLabel(err)).Inc()
	}
	m.callsTotal.WithLabelValues(op, status).Inc()
	m.callDuration.WithLabelValues(op).Observe(float64(d) / float64(time.Millisecond))
}

// ObserveRead records n bytes read from the host.
func (m *Metrics) ObserveRead(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesTransferred.WithLabelValues("read").Add(float64(n))
}

// ObserveWrite records n bytes written to the host.
func (m *Metrics) ObserveWrite(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesTransferred.WithLabelValues("write").Add(float64(n))
}

// DescriptorOpened and DescriptorClosed track open host descriptors.
func (m *Metrics) DescriptorOpened() {
	if m != nil {
		m.openFDs.Inc()
	}
}

func (m *Metrics) DescriptorClosed() {
	if m != nil {
		m.openFDs.Dec()
	}
}

func errnoLabel(err error) string {
	if e, ok := errno.Translate(err).(errno.Errno); ok {
		return e.Name()
	}
	return "UNKNOWN"
}
