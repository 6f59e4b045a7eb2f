package sort

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		key  string
		dir  Direction
		want Direction
	}{
		{"asc", "name", Asc, Asc},
		{"desc", "revenue", Desc, Desc},
		{"default asc", "name", "", Asc},
		{"unknown falls back to asc", "name", "sideways", Asc},
		{"case sensitive", "name", "DESC", Asc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(tt.key, tt.dir)
			if o.Direction() != tt.want {
				t.Errorf("Direction() = %q, want %q", o.Direction(), tt.want)
			}
			if o.Key() != tt.key {
				t.Errorf("Key() = %q", o.Key())
			}
		})
	}
}

func TestOrder_ZeroValue(t *testing.T) {
	var o Order
	if !o.IsNone() {
		t.Error("zero Order should be none")
	}
	if o.Direction() != Asc {
		t.Errorf("zero Direction() = %q, want asc", o.Direction())
	}
}
