package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ordering/internal/event"
)

func TestDispatcherMetrics_ObserveNotifyAndDelivery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDispatcherMetricsWithRegisterer(reg)

	m.ObserveNotify(event.NameProductCreated, 2)
	m.ObserveNotify(event.NameProductCreated, 2)
	m.ObserveDelivery(event.NameProductCreated, 5*time.Millisecond, nil)
	m.ObserveDelivery(event.NameProductCreated, 7*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.notified.WithLabelValues(string(event.NameProductCreated))); got != 2 {
		t.Fatalf("expected 2 notifications, got %v", got)
	}
	if got := testutil.ToFloat64(m.handlerFailures.WithLabelValues(string(event.NameProductCreated))); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.CollectAndCount(m.handlerDuration); got != 1 {
		t.Fatalf("expected one duration series, got %d", got)
	}
}

func TestDispatcherMetrics_ReRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewDispatcherMetricsWithRegisterer(reg)
	second := NewDispatcherMetricsWithRegisterer(reg)

	if first.notified != second.notified {
		t.Fatal("expected the same counter vec after re-registration")
	}
	if first.handlerDuration != second.handlerDuration {
		t.Fatal("expected the same histogram vec after re-registration")
	}
}

func TestDispatcherMetrics_NilRegistererFallsBackToDefault(t *testing.T) {
	if m := NewDispatcherMetricsWithRegisterer(nil); m == nil {
		t.Fatal("expected metrics with default registerer")
	}
}

func TestDispatcherMetrics_WiredIntoDispatcher(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDispatcherMetricsWithRegisterer(reg)
	d := event.NewDispatcher(event.WithObserver(m))

	failing := errors.New("handler failed")
	d.Register(event.NameProductCreated, event.On(func(event.ProductCreated) error { return nil }))
	d.Register(event.NameProductCreated, event.On(func(event.ProductCreated) error { return failing }))

	err := d.Notify(event.ProductCreated{
		ID:          "p1",
		ProductName: "Product 1",
		Price:       decimal.NewFromInt(10),
		At:          time.Now(),
	})
	if !errors.Is(err, failing) {
		t.Fatalf("expected handler error, got %v", err)
	}

	if got := testutil.ToFloat64(m.notified.WithLabelValues(string(event.NameProductCreated))); got != 1 {
		t.Fatalf("expected 1 notification, got %v", got)
	}
	if got := testutil.ToFloat64(m.handlerFailures.WithLabelValues(string(event.NameProductCreated))); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}
