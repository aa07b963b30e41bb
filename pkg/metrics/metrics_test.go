package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestStoreMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg)
	m.Observe("users", "get", "ok", 5*time.Millisecond)
	m.Observe("users", "get", "absent", time.Millisecond)
	m.Observe("", "add", "DUPLICATE_KEY", time.Millisecond)
	m.ObserveOpen(nil)
	m.ObserveOpen(errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "store_operations_total", "result", "absent"); err != nil {
		t.Fatalf("fetch absent: %v", err)
	} else if got != 1 {
		t.Fatalf("expected absent=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "store_operations_total", "collection", "unknown"); err != nil {
		t.Fatalf("fetch normalized collection: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown collection=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "store_open_total", "result", "error"); err != nil || got != 1 {
		t.Fatalf("expected one failed open, got %f (%v)", got, err)
	}
	if got, err := fetchHistogramCount(mfs, "store_operation_duration_seconds", "op", "get"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 observations, got %d", got)
	}
}

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)
	m.Debited(1)
	m.Debited(2)
	m.Added(50, "p1")
	m.Insufficient()
	m.ActivityDropped("TTS")

	if got := testutil.ToFloat64(m.debited); got != 3 {
		t.Fatalf("expected 3 debited, got %f", got)
	}
	if got := testutil.ToFloat64(m.added); got != 50 {
		t.Fatalf("expected 50 added, got %f", got)
	}
	if got := testutil.ToFloat64(m.purchases.WithLabelValues("p1")); got != 1 {
		t.Fatalf("expected one p1 purchase, got %f", got)
	}
	if got := testutil.ToFloat64(m.insufficient); got != 1 {
		t.Fatalf("expected one rejection, got %f", got)
	}
	if got := testutil.ToFloat64(m.activityDrops.WithLabelValues("TTS")); got != 1 {
		t.Fatalf("expected one dropped TTS entry, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var s *StoreMetrics
	s.Observe("users", "get", "ok", time.Millisecond)
	s.ObserveOpen(nil)
	NewStoreMetrics(nil).Observe("users", "get", "ok", time.Millisecond)

	var l *LedgerMetrics
	l.Debited(1)
	l.Added(1, "p1")
	l.Insufficient()
	l.ActivityDropped("LOGIN")
	NewLedgerMetrics(nil).Debited(1)
}

func TestSnapshotIsSorted(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewLedgerMetrics(reg).Added(200, "p2")
	NewStoreMetrics(reg).Observe("stories", "add", "ok", time.Millisecond)

	samples, err := Snapshot(reg)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i-1].Name > samples[i].Name {
			t.Fatalf("samples not sorted: %q before %q", samples[i-1].Name, samples[i].Name)
		}
	}
	var found bool
	for _, s := range samples {
		if s.Name == "ledger_credits_added_total" {
			found = true
			if s.Value != 200 {
				t.Fatalf("expected 200 credits added, got %f", s.Value)
			}
		}
		if s.Name == "store_operation_duration_seconds" && s.Value != 1 {
			t.Fatalf("expected histogram count 1, got %f", s.Value)
		}
	}
	if !found {
		t.Fatal("ledger_credits_added_total missing from snapshot")
	}
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

func fetchHistogramCount(mfs []*dto.MetricFamily, name, label, value string) (uint64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	var total uint64
	var found bool
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			total += metric.GetHistogram().GetSampleCount()
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
	}
	return total, nil
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
