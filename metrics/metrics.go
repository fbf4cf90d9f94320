package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nibirhossain/email-validator-api/models"
)

// Metrics holds the Prometheus collectors of the verification pipeline.
type Metrics struct {
	Verdicts      *prometheus.CounterVec
	ProbeDuration *prometheus.HistogramVec
	CatchAll      prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_verifier_verdicts_total",
			Help: "Verdicts returned, by status",
		}, []string{"status"}),
		ProbeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "email_verifier_probe_duration_seconds",
			Help:    "Duration of SMTP probes, by kind",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 8, 12, 20},
		}, []string{"kind"}),
		CatchAll: factory.NewCounter(prometheus.CounterOpts{
			Name: "email_verifier_catch_all_total",
			Help: "Domains detected as catch-all",
		}),
	}
}

func (m *Metrics) ObserveVerdict(status models.Status) {
	m.Verdicts.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) ObserveProbe(kind string, d time.Duration) {
	m.ProbeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveCatchAll() {
	m.CatchAll.Inc()
}
