package listquery

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	logger     *slog.Logger
	metricsReg prometheus.Registerer
	slow       time.Duration
}

// WithLogger enables structured logging of evaluations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers evaluation metrics (counts, durations and
// matched-set sizes) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}

// WithSlowThreshold logs evaluations slower than d at Info level, even when
// the logger would drop Debug records. Zero disables it (default).
func WithSlowThreshold(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) {
		c.slow = d
	})
}
