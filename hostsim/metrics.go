package hostsim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics of a Host
type Metrics struct {
	callsTotal       *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	resultBytesTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_host_calls_total",
				Help: "Total number of boundary calls served by the host",
			},
			[]string{"method", "status"},
		),

		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contract_host_call_duration_seconds",
				Help:    "Boundary call handling time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		resultBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_host_result_bytes_total",
				Help: "Total bytes written back to contracts by data fetch calls",
			},
			[]string{"method"},
		),
	}
}

// RecordCall counts one served call.
func (m *Metrics) RecordCall(method string, code int32, seconds float64) {
	status := statusSuccess
	if code != 0 {
		status = statusError
	}
	m.callsTotal.WithLabelValues(method, status).Inc()
	m.callDuration.WithLabelValues(method).Observe(seconds)
}

// RecordResultBytes counts bytes returned by a data fetch.
func (m *Metrics) RecordResultBytes(method string, n int) {
	m.resultBytesTotal.WithLabelValues(method).Add(float64(n))
}
