package result

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

func TestNew(t *testing.T) {
	r := New([]int{1, 2}, 5, 3, 2, selection.New("1"), []string{"1", "2", "3", "4", "5"})
	if r.TotalMatched() != 5 || r.TotalPages() != 3 || r.Page() != 2 {
		t.Errorf("counts = %d/%d/%d", r.TotalMatched(), r.TotalPages(), r.Page())
	}
	if !r.Selection().Contains("1") {
		t.Error("Selection() lost id")
	}
	if diff := cmp.Diff([]int{1, 2}, r.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestPageIDs(t *testing.T) {
	r := New([]int{7, 9}, 2, 1, 1, selection.Set{}, nil)
	got := r.PageIDs(strconv.Itoa)
	if diff := cmp.Diff([]string{"7", "9"}, got); diff != "" {
		t.Errorf("PageIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestMap(t *testing.T) {
	r := New([]int{1, 2}, 4, 2, 1, selection.New("2"), []string{"1", "2", "3", "4"})
	m := Map(r, strconv.Itoa)
	if diff := cmp.Diff([]string{"1", "2"}, m.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
	if m.TotalMatched() != 4 || m.TotalPages() != 2 || m.Page() != 1 {
		t.Error("Map() dropped counts")
	}
	if diff := cmp.Diff(r.MatchedIDs(), m.MatchedIDs()); diff != "" {
		t.Errorf("MatchedIDs() mismatch (-want +got):\n%s", diff)
	}
}
