package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersOnPrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.StrategyHits.WithLabelValues("table").Inc()
	m.StrategyHits.WithLabelValues("table").Inc()
	m.EmptyExtractions.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StrategyHits.WithLabelValues("table")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmptyExtractions))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
