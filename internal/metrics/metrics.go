// Package metrics exports upload batch metrics to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/uploader"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "uploader"

// Metrics records batch and file outcomes from uploader events.
type Metrics struct {
	batches       prometheus.Counter
	files         *prometheus.CounterVec
	inFlight      prometheus.Gauge
	batchDuration prometheus.Histogram

	gatherer prometheus.Gatherer

	mu      sync.Mutex
	started map[string]time.Time
	now     func() time.Time
}

// New registers the collectors with reg. A nil reg uses a fresh registry.
// Collectors already registered under the same names are reused.
func New(namespace string, reg *prometheus.Registry) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Upload batches started.",
		}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files settled, by final status.",
		}, []string{"status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batches_in_flight",
			Help:      "Batches started and not yet ended.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time from batch start to end.",
			Buckets:   prometheus.DefBuckets,
		}),
		gatherer: reg,
		started:  make(map[string]time.Time),
		now:      time.Now,
	}

	var err error
	if m.batches, err = register(reg, m.batches); err != nil {
		return nil, err
	}
	if m.files, err = register(reg, m.files); err != nil {
		return nil, err
	}
	if m.inFlight, err = register(reg, m.inFlight); err != nil {
		return nil, err
	}
	if m.batchDuration, err = register(reg, m.batchDuration); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("metrics: register collector: %w", err)
}

// Attach subscribes to start and end events of u and returns a function
// that detaches it.
func (m *Metrics) Attach(u *uploader.Uploader) (detach func()) {
	subs := []uploader.Subscription{
		u.On(uploader.EventStart, m.batchStarted),
		u.On(uploader.EventEnd, m.batchEnded),
	}
	return func() {
		for _, s := range subs {
			u.Off(s)
		}
	}
}

func (m *Metrics) batchStarted(s uploader.Snapshot) {
	m.batches.Inc()
	m.inFlight.Inc()

	m.mu.Lock()
	m.started[s.Batch] = m.now()
	m.mu.Unlock()
}

func (m *Metrics) batchEnded(s uploader.Snapshot) {
	m.mu.Lock()
	start, ok := m.started[s.Batch]
	delete(m.started, s.Batch)
	m.mu.Unlock()

	if ok {
		m.inFlight.Dec()
		m.batchDuration.Observe(m.now().Sub(start).Seconds())
	}

	for _, it := range s.Items {
		m.files.WithLabelValues(string(it.Status)).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
