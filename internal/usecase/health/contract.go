package health

import (
	"context"

	"github.com/kailas-cloud/listquery/internal/domain/dataset"
)

// DatasetLister lists registered datasets and their load state.
type DatasetLister interface {
	List(ctx context.Context) []dataset.Info
}

// BusPinger checks event bus availability.
type BusPinger interface {
	Ping() error
}
