package limits

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAllowed = "allowed"
	outcomeDenied  = "denied"
	outcomeError   = "error"
)

// Metrics instruments limit checks. A nil *Metrics records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cantera",
				Subsystem: "limits",
				Name:      "decisions_total",
				Help:      "Limit check outcomes by action, plan and outcome (allowed, denied, error).",
			},
			[]string{"action", "plan", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cantera",
				Subsystem: "limits",
				Name:      "check_duration_seconds",
				Help:      "Latency of limit checks including tenant, plan and usage lookups.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"action"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.decisions, m.duration)
	}
	return m
}

func (m *Metrics) observe(action Action, plan, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(string(action), plan, outcome).Inc()
	m.duration.WithLabelValues(string(action)).Observe(took.Seconds())
}
