package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/catalog"
	dsrepo "github.com/kailas-cloud/listquery/internal/repository/dataset"
)

func register[R any](reg *dsrepo.Registry, name string, table *accessor.Table[R]) error {
	ds, err := dsrepo.NewTyped(name, table)
	if err != nil {
		return err
	}
	return reg.Register(ds)
}

// newRegistry registers every catalog dataset, empty.
func newRegistry() (*dsrepo.Registry, error) {
	reg := dsrepo.NewRegistry()
	err := errors.Join(
		register(reg, catalog.Campaigns, catalog.CampaignAccessors()),
		register(reg, catalog.Coupons, catalog.CouponAccessors()),
		register(reg, catalog.Products, catalog.ProductAccessors()),
		register(reg, catalog.Customers, catalog.CustomerAccessors()),
	)
	if err != nil {
		return nil, fmt.Errorf("register datasets: %w", err)
	}
	return reg, nil
}

// loadRegistry builds the registry and loads it from seedDir without publishing changes.
func loadRegistry(ctx context.Context, seedDir string, logger *zap.Logger) (*dsrepo.Registry, *dsrepo.Loader, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, nil, err
	}
	loader := dsrepo.NewLoader(reg, seedDir, nil, "", logger)
	if err := loader.LoadAll(ctx); err != nil {
		return nil, nil, err
	}
	return reg, loader, nil
}
