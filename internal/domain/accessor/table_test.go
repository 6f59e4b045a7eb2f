package accessor

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/listquery/internal/domain/field"
)

type rec struct {
	ID      string
	Name    string
	Revenue float64
	Created time.Time
	Tags    []string
}

func recTable(t *testing.T) *Table[rec] {
	t.Helper()
	tbl, err := New(func(r rec) string { return r.ID }).
		String("name", func(r rec) string { return r.Name }, Searchable()).
		Number("revenue", func(r rec) float64 { return r.Revenue }).
		Date("createdAt", func(r rec) time.Time { return r.Created }).
		Strings("tags", func(r rec) []string { return r.Tags }, Searchable()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tbl
}

func TestBuild_Valid(t *testing.T) {
	tbl := recTable(t)

	var names []string
	for _, f := range tbl.Fields() {
		names = append(names, f.Name())
	}
	if diff := cmp.Diff([]string{"name", "revenue", "createdAt", "tags"}, names); diff != "" {
		t.Errorf("Fields() order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "tags"}, tbl.Searchable()); diff != "" {
		t.Errorf("Searchable() mismatch (-want +got):\n%s", diff)
	}
	if !tbl.Has("revenue") || tbl.Has("missing") {
		t.Error("Has() mismatch")
	}
	if got := tbl.ID(rec{ID: "c-1"}); got != "c-1" {
		t.Errorf("ID() = %q", got)
	}
}

func TestLookup(t *testing.T) {
	tbl := recTable(t)

	def, get, ok := tbl.Lookup("revenue")
	if !ok {
		t.Fatal("Lookup(revenue) not found")
	}
	if def.FieldType() != field.Number {
		t.Errorf("FieldType() = %q", def.FieldType())
	}
	if v := get(rec{Revenue: 42}); v.Num() != 42 {
		t.Errorf("value = %v", v.Num())
	}

	if _, _, ok := tbl.Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*Table[rec], error)
		wantErr string
	}{
		{
			name: "missing id",
			build: func() (*Table[rec], error) {
				return New[rec](nil).String("name", func(r rec) string { return r.Name }).Build()
			},
			wantErr: "id accessor is required",
		},
		{
			name: "duplicate field",
			build: func() (*Table[rec], error) {
				return New(func(r rec) string { return r.ID }).
					String("name", func(r rec) string { return r.Name }).
					String("name", func(r rec) string { return r.Name }).
					Build()
			},
			wantErr: "duplicate field name",
		},
		{
			name: "nil accessor",
			build: func() (*Table[rec], error) {
				return New(func(r rec) string { return r.ID }).String("name", nil).Build()
			},
			wantErr: "accessor is nil",
		},
		{
			name: "searchable number",
			build: func() (*Table[rec], error) {
				return New(func(r rec) string { return r.ID }).
					Number("revenue", func(r rec) float64 { return r.Revenue }, Searchable()).
					Build()
			},
			wantErr: "cannot be searchable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestOptionalNumber(t *testing.T) {
	tbl, err := New(func(r rec) string { return r.ID }).
		OptionalNumber("revenue", func(r rec) (float64, bool) { return r.Revenue, r.Revenue > 0 }).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, get, _ := tbl.Lookup("revenue")
	if !get(rec{}).IsMissing() {
		t.Error("expected missing value for zero revenue")
	}
	if get(rec{Revenue: 5}).IsMissing() {
		t.Error("expected present value")
	}
}

func TestSnapshot(t *testing.T) {
	tbl := recTable(t)
	got := tbl.Snapshot(rec{
		ID:      "c-1",
		Name:    "Acme",
		Revenue: 100,
		Tags:    []string{"vip", "b2b"},
	})
	want := map[string]string{
		"name":    "Acme",
		"revenue": "100",
		"tags":    "vip,b2b",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}
