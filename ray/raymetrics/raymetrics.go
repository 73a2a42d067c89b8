// Package raymetrics exports interpreter activity as prometheus metrics.
package raymetrics

import (
	"errors"
	"io"
	"time"

	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Possible values of the result label.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultStopped = "stopped"
)

// Observer implements ray.Observer by updating prometheus collectors.
type Observer struct {
	calls      *prometheus.CounterVec
	primitives *prometheus.CounterVec
	evals      *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	stops      *prometheus.CounterVec
}

var _ ray.Observer = (*Observer)(nil)

// New creates the interpreter collectors and registers them with reg.  New
// panics if the collectors are already registered with reg.
func New(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ray_function_calls_total",
			Help: "Function applications by the kind of function applied",
		}, []string{"kind"}),
		primitives: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ray_primitive_calls_total",
			Help: "Primitive applications by primitive name",
		}, []string{"name"}),
		evals: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ray_eval_duration_seconds",
			Help:    "Distribution of top-level evaluation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"result"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ray_eval_errors_total",
			Help: "Failed evaluations by error kind",
		}, []string{"kind"}),
		stops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ray_stops_total",
			Help: "Stopped evaluations by reason",
		}, []string{"reason"}),
	}
}

// ObserveCall implements ray.Observer.
func (o *Observer) ObserveCall(name string, primitive bool) {
	if primitive {
		o.calls.WithLabelValues("primitive").Inc()
		o.primitives.WithLabelValues(name).Inc()
		return
	}
	o.calls.WithLabelValues("closure").Inc()
}

// ObserveEval implements ray.Observer.
func (o *Observer) ObserveEval(d time.Duration, err error) {
	result := ResultOK
	var evalErr *ray.EvalError
	switch {
	case err == nil:
	case ray.IsStopped(err):
		result = ResultStopped
	case errors.As(err, &evalErr):
		result = ResultError
		o.errors.WithLabelValues(evalErr.Kind.String()).Inc()
	default:
		result = ResultError
		o.errors.WithLabelValues(ray.ErrorUnknown.String()).Inc()
	}
	o.evals.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveStop implements ray.Observer.
func (o *Observer) ObserveStop(reason ray.StopReason) {
	o.stops.WithLabelValues(reason.String()).Inc()
}

// WriteText writes the metrics gathered from g to w in the prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		_, err := expfmt.MetricFamilyToText(w, mf)
		if err != nil {
			return err
		}
	}
	return nil
}
