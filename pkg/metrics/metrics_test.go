package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("/api/v1/products/{id}", "GET", 200, 120*time.Millisecond)
	m.Observe("", "GET", 404, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/products/{id}")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "http_requests_total", "route", "unknown")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	sum, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/products/{id}")
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)
}

func TestOrderMetricsCountsReceivesAndTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.ObserveTransition("approved")
	m.ObserveTransition("received")
	m.ObserveReceived(8)
	m.ObserveReceived(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "order_status_transitions_total", "status", "approved")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	received := findMetricFamily(mfs, "orders_received_total")
	require.NotNil(t, received)
	assert.Equal(t, float64(2), received.GetMetric()[0].GetCounter().GetValue())

	units := findMetricFamily(mfs, "stock_units_received_total")
	require.NotNil(t, units)
	assert.Equal(t, float64(8), units.GetMetric()[0].GetCounter().GetValue())
}

func TestNilRegistererIsNoop(t *testing.T) {
	var orders *OrderMetrics
	orders.ObserveReceived(3)
	NewOrderMetrics(nil).ObserveTransition("approved")
	NewHTTPMetrics(nil).Observe("/", "GET", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
