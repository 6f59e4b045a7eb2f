package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/listquery/internal/domain/dataset"
)

// --- Mocks ---

type mockDatasets struct {
	infos []dataset.Info
}

func (m *mockDatasets) List(_ context.Context) []dataset.Info { return m.infos }

type mockBus struct {
	err error
}

func (m *mockBus) Ping() error { return m.err }

func loaded(name string) dataset.Info {
	return dataset.NewInfo(name, nil, 3, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
}

func empty(name string) dataset.Info {
	return dataset.NewInfo(name, nil, 0, time.Time{})
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDatasets{infos: []dataset.Info{loaded("campaigns"), loaded("coupons")}}, &mockBus{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, k := range []string{"dataset.campaigns", "dataset.coupons", "bus"} {
		if r.Checks[k] != CheckOK {
			t.Errorf("expected %s %q, got %q", k, CheckOK, r.Checks[k])
		}
	}
}

func TestCheck_DatasetNotLoaded(t *testing.T) {
	svc := New(&mockDatasets{infos: []dataset.Info{loaded("campaigns"), empty("coupons")}}, &mockBus{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["dataset.coupons"] != CheckError {
		t.Errorf("expected dataset.coupons %q, got %q", CheckError, r.Checks["dataset.coupons"])
	}
	if r.Checks["dataset.campaigns"] != CheckOK {
		t.Errorf("expected dataset.campaigns %q, got %q", CheckOK, r.Checks["dataset.campaigns"])
	}
}

func TestCheck_BusClosed(t *testing.T) {
	svc := New(&mockDatasets{infos: []dataset.Info{loaded("campaigns")}}, &mockBus{err: errors.New("closed")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["bus"] != CheckError {
		t.Errorf("expected bus %q, got %q", CheckError, r.Checks["bus"])
	}
}

func TestCheck_NoBus(t *testing.T) {
	svc := New(&mockDatasets{infos: []dataset.Info{loaded("campaigns")}}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["bus"]; ok {
		t.Error("bus check should be absent when bus is nil")
	}
}

func TestCheck_NoDatasets(t *testing.T) {
	svc := New(&mockDatasets{}, &mockBus{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}
