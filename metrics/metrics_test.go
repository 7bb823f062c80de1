package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg, "BUSDUSDT")

	s.CyclesTotal.Inc()
	s.CyclesTotal.Inc()
	s.IntentsSkipped.WithLabelValues("DUPLICATE").Inc()
	s.ReferencePrice.Set(0.9995)

	if testutil.ToFloat64(s.CyclesTotal) != 2 {
		t.Errorf("Expected CyclesTotal to be 2, got %f", testutil.ToFloat64(s.CyclesTotal))
	}
	if testutil.ToFloat64(s.IntentsSkipped.WithLabelValues("DUPLICATE")) != 1 {
		t.Errorf("Expected one DUPLICATE skip")
	}
	if testutil.ToFloat64(s.ReferencePrice) != 0.9995 {
		t.Errorf("Expected ReferencePrice to be 0.9995, got %f", testutil.ToFloat64(s.ReferencePrice))
	}
}

func TestDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "BUSDUSDT")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	New(reg, "BUSDUSDT")
}
