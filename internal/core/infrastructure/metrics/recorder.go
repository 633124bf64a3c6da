package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	metricsiface "github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/metrics"
)

const (
	namespace = "bookshelf"
	subsystem = "library"
)

// Recorder 基于 Prometheus 的操作指标记录器
type Recorder struct {
	started   *prometheus.CounterVec
	finished  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	ready     prometheus.Gauge
	available prometheus.Gauge
}

// NewRecorder 创建记录器并注册到指定注册表
//
// reg 为 nil 时使用 prometheus.DefaultRegisterer。
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_started_total",
			Help:      "Total number of operations that passed the in-flight gate",
		}, []string{"kind"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_finished_total",
			Help:      "Total number of resolved operations by outcome category",
		}, []string{"kind", "category"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_rejected_total",
			Help:      "Total number of operations rejected before execution",
		}, []string{"kind", "category"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Operation duration from submission to resolution",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 15, 30, 60, 120},
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_in_flight",
			Help:      "1 while an operation is in flight, otherwise 0",
		}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "contract_ready",
			Help:      "1 if a contract binding exists, otherwise 0",
		}),
		available: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "available_books",
			Help:      "Available books count from the last successful read",
		}),
	}

	collectors := []prometheus.Collector{
		r.started, r.finished, r.rejected, r.duration, r.inFlight, r.ready, r.available,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// OperationStarted 实现 OperationRecorder
func (r *Recorder) OperationStarted(kind string) {
	r.started.WithLabelValues(kind).Inc()
	r.inFlight.Set(1)
}

// OperationFinished 实现 OperationRecorder
func (r *Recorder) OperationFinished(kind string, category string, elapsed time.Duration) {
	if category == "" {
		category = "success"
	}
	r.finished.WithLabelValues(kind, category).Inc()
	r.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	r.inFlight.Set(0)
}

// OperationRejected 实现 OperationRecorder
func (r *Recorder) OperationRejected(kind string, category string) {
	r.rejected.WithLabelValues(kind, category).Inc()
}

// ContractReady 实现 OperationRecorder
func (r *Recorder) ContractReady(ready bool) {
	if ready {
		r.ready.Set(1)
		return
	}
	r.ready.Set(0)
}

// AvailableBooks 实现 OperationRecorder
func (r *Recorder) AvailableBooks(count uint64) {
	r.available.Set(float64(count))
}

var _ metricsiface.OperationRecorder = (*Recorder)(nil)
