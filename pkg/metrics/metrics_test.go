package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("plantdash", reg)

	c.RecordRequest("/plants", "GET", "200", 20*time.Millisecond)
	c.RecordRequest("/plants", "GET", "200", 30*time.Millisecond)
	c.RecordError("http", "/plant/{id}")
	c.RecordTick("slow", "recommendation")

	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("/plants", "GET", "200")); got != 2 {
		t.Fatalf("requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ErrorsTotal.WithLabelValues("http", "/plant/{id}")); got != 1 {
		t.Fatalf("errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SchedulerTicks.WithLabelValues("slow", "recommendation")); got != 1 {
		t.Fatalf("scheduler_ticks_total = %v, want 1", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordRequest("/plants", "GET", "200", time.Millisecond)
	c.RecordError("transport", "/plants")
	c.RecordTick("fast", "sensors")
}

func TestNewCollectorTwiceWithNilRegistry(t *testing.T) {
	NewCollector("plantdash", nil)
	NewCollector("plantdash", nil)
}
