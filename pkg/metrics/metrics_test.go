package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/metrics"
)

func TestAccessResults(t *testing.T) {
	t.Parallel()

	m := metrics.New(nil)
	events := []config.AccessEvent{
		{Op: config.AccessRead, Source: config.SourceStore, Found: true},
		{Op: config.AccessRead, Found: false},
		{Op: config.AccessRead, Found: true, Mismatch: true},
		{Op: config.AccessWrite, Err: errors.New("boom")},
		{Op: config.AccessWrite},
	}
	for _, event := range events {
		m.LogAccess(event)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessRead, config.SourceStore, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessRead, "", metrics.ResultMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessRead, "", metrics.ResultMismatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessWrite, "", metrics.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessWrite, "", metrics.ResultOK)))
}

func TestRegistersWithRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveBackend("redis", "get", "success", time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "commodus_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendOpsTotal("redis", "get", "success")))
}

func TestMetricsAsHolderLogger(t *testing.T) {
	t.Parallel()

	m := metrics.New(nil)
	var logged int
	holder := config.NewHolder("metrics", config.WithAccessLogger(config.TeeAccessLogger(
		m,
		nil,
		config.AccessLoggerFunc(func(config.AccessEvent) { logged++ }),
	)))
	radius := config.Register(holder, config.NewWithDefault(nil, "spawn.radius", 16))

	backing := mapStore{"spawn.radius": 8}
	value, err := radius.Value(backing)
	require.NoError(t, err)
	assert.Equal(t, 8, value)
	require.NoError(t, radius.Set(backing, 12))

	assert.Equal(t, 2, logged)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessRead, config.SourceStore, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessTotal(config.AccessWrite, "", metrics.ResultOK)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.LogAccess(config.AccessEvent{Op: config.AccessRead})
		m.ObserveBackend("redis", "get", "success", 0)
	})
}

type mapStore map[string]any

func (s mapStore) Get(path string) (any, bool, error) {
	value, ok := s[path]
	return value, ok, nil
}

func (s mapStore) Set(path string, value any) error {
	s[path] = value
	return nil
}
