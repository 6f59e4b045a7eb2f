package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/domain/catalog"
	domds "github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/filter"
	"github.com/kailas-cloud/listquery/internal/domain/query/page"
	"github.com/kailas-cloud/listquery/internal/domain/query/sort"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

func TestNewTyped_Validation(t *testing.T) {
	if _, err := NewTyped("Bad Name", catalog.CustomerAccessors()); err == nil {
		t.Error("expected error for invalid name")
	}
	if _, err := NewTyped[catalog.Customer]("customers", nil); err == nil {
		t.Error("expected error for nil table")
	}
}

func TestLoad(t *testing.T) {
	ds := newCustomers(t)
	change, err := ds.Load([]byte(customersYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(domds.Change{Dataset: "customers", Created: 2}, change); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
	info := ds.Info()
	if info.Size() != 2 || info.LoadedAt().IsZero() {
		t.Errorf("Info() = size %d loadedAt %v", info.Size(), info.LoadedAt())
	}
	c, ok := ds.Get("cus-2")
	if !ok || c.Company != "Globex" {
		t.Errorf("Get(cus-2) = %+v, %v", c, ok)
	}
}

func TestSnapshot(t *testing.T) {
	ds := newCustomers(t)
	if _, err := ds.Load([]byte(customersYAML)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap, ok := ds.Snapshot("cus-1")
	if !ok {
		t.Fatal("Snapshot(cus-1) not found")
	}
	if snap["company"] != "Acme" || snap["lifetimeValue"] != "1200" {
		t.Errorf("Snapshot(cus-1) = %v", snap)
	}
	if _, ok := ds.Snapshot("ghost"); ok {
		t.Error("Snapshot(ghost) should fail")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "- id: [", "decode customers"},
		{"missing name", "- id: x\n  status: Active\n", "name is required"},
		{"bad email", "- id: x\n  name: X\n  status: Active\n  email: nope\n", "email"},
		{"duplicate id", "- {id: x, name: A, status: Active}\n- {id: x, name: B, status: Active}\n", "duplicate record id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newCustomers(t)
			_, err := ds.Load([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
			if ds.Info().Size() != 0 {
				t.Error("failed load must not replace snapshot")
			}
		})
	}
}

func TestReplace_ChangeSummary(t *testing.T) {
	ds := newCustomers(t)
	if _, err := ds.Load([]byte(customersYAML)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	recs := ds.Records()
	recs[0].LifetimeValue = decimal.NewFromInt(5000) // cus-1 updated
	recs = recs[:1]                                  // cus-2 deleted
	recs = append(recs, catalog.Customer{ID: "cus-3", Name: "New", Status: "Active"})

	change, err := ds.Replace(recs)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := domds.Change{Dataset: "customers", Created: 1, Updated: 1, Deleted: 1}
	if diff := cmp.Diff(want, change); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}

	again, err := ds.Replace(ds.Records())
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if !again.IsEmpty() {
		t.Errorf("identical replace reported %+v", again)
	}
}

func TestQuery(t *testing.T) {
	ds := newCustomers(t)
	if _, err := ds.Load([]byte(customersYAML)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	f, _ := filter.NewFacet("status", []string{"Active"})
	fs := filter.NewSet([]filter.Facet{f}, nil, nil)
	d := descriptor.New("acme", fs, sort.New("lifetimeValue", sort.Desc), page.New(1, 10))

	res, err := ds.Query(d, selection.New("cus-1", "cus-2"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.TotalMatched() != 1 {
		t.Fatalf("TotalMatched() = %d", res.TotalMatched())
	}
	row := res.Items()[0]
	if row.ID != "cus-1" {
		t.Errorf("row ID = %q", row.ID)
	}
	if _, ok := row.Record.(catalog.Customer); !ok {
		t.Errorf("Record type = %T", row.Record)
	}
	if diff := cmp.Diff([]string{"cus-1"}, res.Selection().IDs()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_UnknownField(t *testing.T) {
	ds := newCustomers(t)
	f, _ := filter.NewFacet("region", []string{"EU"})
	d := descriptor.New("", filter.NewSet([]filter.Facet{f}, nil, nil), sort.Order{}, page.New(1, 10))

	if _, err := ds.Query(d, selection.Set{}); !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("error = %v, want ErrUnknownField", err)
	}
}
