package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibirhossain/email-validator-api/models"
	"github.com/nibirhossain/email-validator-api/verifier"
)

var _ verifier.Recorder = (*Metrics)(nil)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveVerdict(models.StatusSafe)
	m.ObserveVerdict(models.StatusSafe)
	m.ObserveVerdict(models.StatusBad)
	m.ObserveProbe("primary", 300*time.Millisecond)
	m.ObserveCatchAll()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Verdicts.WithLabelValues("safe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Verdicts.WithLabelValues("bad")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CatchAll))

	count, err := testutil.GatherAndCount(reg, "email_verifier_probe_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
