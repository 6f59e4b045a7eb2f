package listquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
	"github.com/kailas-cloud/listquery/internal/logger"
	"github.com/kailas-cloud/listquery/internal/metrics"
)

// Request is one list query against a named dataset.
type Request struct {
	Dataset    string
	Descriptor descriptor.Descriptor
	Selection  selection.Set
	SelectAll  SelectScope
}

// Service runs list queries against the dataset store with logging and metrics.
type Service struct {
	store DatasetStore
}

// NewService creates a query service.
func NewService(store DatasetStore) *Service {
	return &Service{store: store}
}

// Query evaluates req and applies the select-all scope to the returned selection.
func (s *Service) Query(ctx context.Context, req Request) (result.Result[dataset.Row], error) {
	ctx = logger.With(ctx, zap.String("dataset", req.Dataset))
	log := logger.FromContext(ctx)

	start := time.Now()
	res, err := s.store.Query(ctx, req.Dataset, req.Descriptor, req.Selection)
	elapsed := time.Since(start)

	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues(req.Dataset, statusOf(err)).Inc()
		if errors.Is(err, domain.ErrUnknownField) || errors.Is(err, domain.ErrFieldTypeMismatch) {
			log.Warn("List query rejected", zap.Error(err))
		}
		return result.Result[dataset.Row]{}, fmt.Errorf("query %s: %w", req.Dataset, err)
	}

	metrics.EvaluationsTotal.WithLabelValues(req.Dataset, "ok").Inc()
	metrics.EvaluationDuration.WithLabelValues(req.Dataset).Observe(elapsed.Seconds())
	metrics.MatchedRecords.WithLabelValues(req.Dataset).Observe(float64(res.TotalMatched()))

	if req.SelectAll != SelectNone {
		sel := ApplySelectAll(res, req.SelectAll, dataset.RowID)
		res = result.New(res.Items(), res.TotalMatched(), res.TotalPages(), res.Page(), sel, res.MatchedIDs())
	}

	log.Debug("List query evaluated",
		zap.String("search", req.Descriptor.SearchTerm()),
		zap.Int("matched", res.TotalMatched()),
		zap.Int("page", res.Page()),
		zap.Int("total_pages", res.TotalPages()),
		zap.Int("selected", res.Selection().Len()),
		zap.Duration("duration", elapsed),
	)
	return res, nil
}

// Datasets lists every registered dataset.
func (s *Service) Datasets(ctx context.Context) []dataset.Info {
	return s.store.List(ctx)
}

// Dataset describes one dataset.
func (s *Service) Dataset(ctx context.Context, name string) (dataset.Info, error) {
	info, err := s.store.Info(ctx, name)
	if err != nil {
		return dataset.Info{}, fmt.Errorf("dataset %s: %w", name, err)
	}
	return info, nil
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrFieldTypeMismatch):
		return "config_error"
	default:
		return "error"
	}
}
