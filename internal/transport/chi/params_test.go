package chi

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestRecordsParams_QueryRequest(t *testing.T) {
	q, _ := url.ParseQuery("search=acme&field=name&sort=revenue&direction=desc&page=2&size=20" +
		"&facet=status:Active&facet=status:Paused&facet=tags:vip" +
		"&range=revenue:100:&range=budget::50" +
		"&date=createdAt:2024-06-01:2024-06-30" +
		"&date=lastSeen:2024-06-01T08:00:00Z..2024-06-02T18:00:00Z" +
		"&selected=c-1&selected=c-2&select_all=page")

	params, err := BindRecordsParams(q)
	if err != nil {
		t.Fatalf("BindRecordsParams: %v", err)
	}
	got, err := params.QueryRequest()
	if err != nil {
		t.Fatalf("QueryRequest: %v", err)
	}

	want := QueryRequest{
		SearchTerm:   "acme",
		SearchFields: []string{"name"},
		FacetFilters: map[string][]string{
			"status": {"Active", "Paused"},
			"tags":   {"vip"},
		},
		RangeFilters: map[string]Bounds{
			"revenue": {Min: ptr(100.0)},
			"budget":  {Max: ptr(50.0)},
		},
		DateRangeFilters: map[string]DateBounds{
			"createdAt": {From: "2024-06-01", To: "2024-06-30"},
			"lastSeen":  {From: "2024-06-01T08:00:00Z", To: "2024-06-02T18:00:00Z"},
		},
		Sort:      SortSpec{Key: "revenue", Direction: "desc"},
		Page:      PageSpec{Index: 2, Size: 20},
		Selection: []string{"c-1", "c-2"},
		SelectAll: "page",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryRequest mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordsParams_Empty(t *testing.T) {
	params, err := BindRecordsParams(url.Values{})
	if err != nil {
		t.Fatalf("BindRecordsParams: %v", err)
	}
	got, err := params.QueryRequest()
	if err != nil {
		t.Fatalf("QueryRequest: %v", err)
	}
	if diff := cmp.Diff(QueryRequest{}, got); diff != "" {
		t.Errorf("QueryRequest mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordsParams_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"facet without value", "facet=status"},
		{"facet without field", "facet=:Active"},
		{"range without bounds", "range=revenue"},
		{"range not a number", "range=revenue:abc:"},
		{"date timestamps without separator", "date=at:2024-06-01T08:00:00Z:2024-06-02T08:00:00Z"},
		{"date without field", "date=:2024-06-01:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			params, err := BindRecordsParams(q)
			if err != nil {
				t.Fatalf("BindRecordsParams: %v", err)
			}
			if _, err := params.QueryRequest(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestQueryRequest_Descriptor(t *testing.T) {
	req := QueryRequest{
		SearchTerm:   "  acme  ",
		FacetFilters: map[string][]string{"status": {"Active"}},
		Sort:         SortSpec{Key: "name"},
		Page:         PageSpec{Size: 1000},
	}
	d, err := req.Descriptor(PageLimits{Default: 10, Max: 50})
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if d.SearchTerm() != "acme" {
		t.Errorf("SearchTerm() = %q", d.SearchTerm())
	}
	if d.Page().Index() != 1 || d.Page().Size() != 50 {
		t.Errorf("page = %d/%d", d.Page().Index(), d.Page().Size())
	}
	if d.Order().Key() != "name" || d.Order().Direction() != "asc" {
		t.Errorf("order = %q %q", d.Order().Key(), d.Order().Direction())
	}
	if len(d.Filters().Facets()) != 1 {
		t.Errorf("facets = %v", d.Filters().Facets())
	}
}

func TestQueryRequest_Validate(t *testing.T) {
	manyFacets := make(map[string][]string)
	for i := range 33 {
		manyFacets[fmt.Sprintf("f%02d", i)] = []string{"x"}
	}

	tests := []struct {
		name    string
		req     QueryRequest
		wantErr string
	}{
		{"inverted range", QueryRequest{RangeFilters: map[string]Bounds{"revenue": {Min: ptr(10.0), Max: ptr(1.0)}}}, "greater than max"},
		{"inverted dates", QueryRequest{DateRangeFilters: map[string]DateBounds{"createdAt": {From: "2024-07-01", To: "2024-06-01"}}}, "is after"},
		{"unparseable from", QueryRequest{DateRangeFilters: map[string]DateBounds{"createdAt": {From: "soon"}}}, "from"},
		{"unparseable to", QueryRequest{DateRangeFilters: map[string]DateBounds{"createdAt": {To: "2024-13-45"}}}, "to"},
		{"bad direction", QueryRequest{Sort: SortSpec{Key: "name", Direction: "DESC"}}, "invalid direction"},
		{"long term", QueryRequest{SearchTerm: strings.Repeat("x", 257)}, "too long"},
		{"too many facets", QueryRequest{FacetFilters: manyFacets}, "too many facet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
			if _, err := tt.req.Descriptor(PageLimits{}); err == nil {
				t.Error("Descriptor accepted an invalid request")
			}
		})
	}

	ok := QueryRequest{
		SearchTerm:       strings.Repeat("é", 256),
		DateRangeFilters: map[string]DateBounds{"createdAt": {From: "2024-06-01", To: "2024-06-01"}},
		Sort:             SortSpec{Key: "name", Direction: "desc"},
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestQueryRequest_DescriptorDefaultCap(t *testing.T) {
	d, err := QueryRequest{Page: PageSpec{Size: 5000}}.Descriptor(PageLimits{})
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if d.Page().Size() != 100 {
		t.Errorf("Size() = %d, want 100", d.Page().Size())
	}
}

func TestWithHeartbeat_IgnoresNonPositive(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want time.Duration
	}{
		{"zero", 0, DefaultHeartbeat},
		{"negative", -time.Second, DefaultHeartbeat},
		{"positive", 2 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(nil, nil, nil, nil, WithHeartbeat(tt.d))
			if s.heartbeat != tt.want {
				t.Errorf("heartbeat = %v, want %v", s.heartbeat, tt.want)
			}
		})
	}
}
