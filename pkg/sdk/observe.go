package listquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the engine.
type sdkMetrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	matched     *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listquery",
			Subsystem: "sdk",
			Name:      "evaluations_total",
			Help:      "Total list query evaluations by dataset and status.",
		}, []string{"dataset", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "listquery",
			Subsystem: "sdk",
			Name:      "evaluation_duration_seconds",
			Help:      "List query evaluation duration in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"dataset"}),
		matched: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "listquery",
			Subsystem: "sdk",
			Name:      "matched_records",
			Help:      "Records matched per successful evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"dataset"}),
	}
	if err := registerOrReuse(reg, &m.evaluations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.matched); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("listquery: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("listquery: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for evaluations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
	slow    time.Duration
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, slow time.Duration) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m, slow: slow}, nil
}

func (o *observer) observe(ctx context.Context, dataset string, start time.Time, matched int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.evaluations.WithLabelValues(dataset, status).Inc()
		o.metrics.duration.WithLabelValues(dataset).Observe(dur.Seconds())
		if err == nil {
			o.metrics.matched.WithLabelValues(dataset).Observe(float64(matched))
		}
	}

	if o.logger == nil {
		return
	}
	switch {
	case err != nil:
		o.logger.WarnContext(ctx, "evaluation failed",
			"dataset", dataset,
			"duration", dur,
			"error", err,
		)
	case o.slow > 0 && dur >= o.slow:
		o.logger.InfoContext(ctx, "slow evaluation",
			"dataset", dataset,
			"duration", dur,
			"matched", matched,
			"threshold", o.slow,
		)
	default:
		o.logger.DebugContext(ctx, "evaluation completed",
			"dataset", dataset,
			"duration", dur,
			"matched", matched,
		)
	}
}
