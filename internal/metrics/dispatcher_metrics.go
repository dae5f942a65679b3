package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// DispatcherMetrics считает доставку доменных событий; реализует event.Observer.
type DispatcherMetrics struct {
	notified        *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec
	handlerDuration *prometheus.HistogramVec
}

// NewDispatcherMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewDispatcherMetrics() *DispatcherMetrics {
	return NewDispatcherMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewDispatcherMetricsWithRegisterer регистрирует метрики в переданном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewDispatcherMetricsWithRegisterer(registerer prometheus.Registerer) *DispatcherMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &DispatcherMetrics{
		notified: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ordering_events_notified_total",
			Help: "Total number of domain events passed to the dispatcher",
		}, []string{"event"}),
		handlerFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ordering_event_handler_failures_total",
			Help: "Total number of event handler invocations that returned an error",
		}, []string{"event"}),
		handlerDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ordering_event_handler_duration_seconds",
			Help:    "Duration of a single event handler invocation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"event"}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// ObserveNotify фиксирует факт публикации события.
func (m *DispatcherMetrics) ObserveNotify(name event.Name, _ int) {
	m.notified.WithLabelValues(string(name)).Inc()
}

// ObserveDelivery записывает длительность вызова обработчика и его ошибку.
func (m *DispatcherMetrics) ObserveDelivery(name event.Name, duration time.Duration, err error) {
	m.handlerDuration.WithLabelValues(string(name)).Observe(duration.Seconds())
	if err != nil {
		m.handlerFailures.WithLabelValues(string(name)).Inc()
	}
}

var _ event.Observer = (*DispatcherMetrics)(nil)
