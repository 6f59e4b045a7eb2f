package dataset

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	domds "github.com/kailas-cloud/listquery/internal/domain/dataset"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeSeed(t, dir, "customers", customersYAML)

	reg := NewRegistry()
	customers := newCustomers(t)
	_ = reg.Register(customers)
	pub := &mockPublisher{}
	l := NewLoader(reg, dir, pub, "dataset.changed", zap.NewNop())
	if err := l.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	w, err := NewWatcher(l, 20*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// drop cus-2, add cus-3
	writeSeed(t, dir, "customers", `
- {id: cus-1, name: Dana Whitfield, email: dana@acme.io, company: Acme, segment: enterprise, status: Active, lifetime_value: "1200", orders: 3, created_at: 2024-01-10T00:00:00Z}
- {id: cus-3, name: Lee Park, status: Active}
`)
	writeSeed(t, dir, "unrelated", "- {}")

	deadline := time.After(5 * time.Second)
	for {
		if got := pub.snapshot(); len(got) > 0 {
			change, ok := got[0].(domds.Change)
			if !ok {
				t.Fatalf("payload type %T", got[0])
			}
			if change.Created != 1 || change.Deleted != 1 {
				t.Errorf("change = %+v", change)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		case <-time.After(20 * time.Millisecond):
		}
	}
	if _, ok := customers.Get("cus-3"); !ok {
		t.Error("cus-3 not loaded")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	l := NewLoader(NewRegistry(), "/nonexistent/seed/dir", nil, "", zap.NewNop())
	if _, err := NewWatcher(l, 0, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}
