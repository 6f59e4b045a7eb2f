package listquery

import (
	"context"

	"github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

// DatasetStore runs queries against named datasets.
type DatasetStore interface {
	Query(ctx context.Context, name string, d descriptor.Descriptor, sel selection.Set) (result.Result[dataset.Row], error)
	Info(ctx context.Context, name string) (dataset.Info, error)
	List(ctx context.Context) []dataset.Info
}
