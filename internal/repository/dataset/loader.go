package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domds "github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/metrics"
)

// SeedExt is the extension of dataset seed fixtures.
const SeedExt = ".yaml"

// Publisher announces dataset changes.
type Publisher interface {
	Publish(topic string, payload any) (int, error)
}

// Loader fills registered datasets from <dir>/<dataset>.yaml.
type Loader struct {
	reg    *Registry
	dir    string
	pub    Publisher
	topic  string
	logger *zap.Logger
}

// NewLoader creates a loader. pub may be nil.
func NewLoader(reg *Registry, dir string, pub Publisher, topic string, logger *zap.Logger) *Loader {
	return &Loader{reg: reg, dir: dir, pub: pub, topic: topic, logger: logger}
}

// Dir returns the seed directory.
func (l *Loader) Dir() string { return l.dir }

// SeedPath returns the fixture path of a dataset.
func (l *Loader) SeedPath(name string) string {
	return filepath.Join(l.dir, name+SeedExt)
}

// LoadAll loads every registered dataset concurrently. A dataset without a
// fixture file stays empty.
func (l *Loader) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range l.reg.Sources() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.load(s)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}
	return nil
}

// Reload re-reads one dataset and publishes the change when anything moved.
func (l *Loader) Reload(_ context.Context, name string) (domds.Change, error) {
	s, err := l.reg.Source(name)
	if err != nil {
		return domds.Change{}, err
	}
	change, err := l.load(s)
	if err != nil {
		return domds.Change{}, err
	}
	if l.pub != nil && !change.IsEmpty() {
		if _, err := l.pub.Publish(l.topic, change); err != nil {
			l.logger.Warn("Dataset change not published", zap.String("dataset", name), zap.Error(err))
		}
	}
	return change, nil
}

func (l *Loader) load(s Source) (domds.Change, error) {
	path := l.SeedPath(s.Name())
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Seed fixture missing, dataset left empty",
			zap.String("dataset", s.Name()), zap.String("path", path))
		return domds.Change{Dataset: s.Name()}, nil
	}
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues(s.Name(), "error").Inc()
		return domds.Change{}, fmt.Errorf("read %s: %w", path, err)
	}

	change, err := s.Load(raw)
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues(s.Name(), "error").Inc()
		return domds.Change{}, fmt.Errorf("load %s: %w", path, err)
	}
	metrics.DatasetReloadsTotal.WithLabelValues(s.Name(), "ok").Inc()
	metrics.DatasetRecords.WithLabelValues(s.Name()).Set(float64(s.Info().Size()))

	l.logger.Info("Dataset loaded",
		zap.String("dataset", s.Name()),
		zap.Int("records", s.Info().Size()),
		zap.Int("created", change.Created),
		zap.Int("updated", change.Updated),
		zap.Int("deleted", change.Deleted),
	)
	return change, nil
}
