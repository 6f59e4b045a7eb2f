package field

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestConstructors_Missing(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"zero", Value{}},
		{"empty string", StringValue("")},
		{"nan", NumberValue(math.NaN())},
		{"zero time", DateValue(time.Time{})},
		{"nil list", StringsValue(nil)},
		{"blank list", StringsValue([]string{"", ""})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.v.IsMissing() {
				t.Errorf("IsMissing() = false, kind %q", tt.v.Kind())
			}
			if tt.v.Texts() != nil {
				t.Errorf("Texts() = %v, want nil", tt.v.Texts())
			}
		})
	}
}

func TestTexts(t *testing.T) {
	day := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    Value
		want []string
	}{
		{"string", StringValue("Acme"), []string{"Acme"}},
		{"number integer", NumberValue(300), []string{"300"}},
		{"number fraction", NumberValue(12.5), []string{"12.5"}},
		{"date", DateValue(day), []string{"2024-06-01"}},
		{"list drops blanks", StringsValue([]string{"vip", "", "b2b"}), []string{"vip", "b2b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.v.Texts()); diff != "" {
				t.Errorf("Texts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	early := DateValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := DateValue(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"numbers less", NumberValue(1), NumberValue(2), -1},
		{"numbers equal", NumberValue(2), NumberValue(2), 0},
		{"numbers greater", NumberValue(3), NumberValue(2), 1},
		{"strings case-insensitive equal", StringValue("ACME"), StringValue("acme"), 0},
		{"strings ordered", StringValue("apple"), StringValue("Banana"), -1},
		{"dates", early, late, -1},
		{"lists by first element", StringsValue([]string{"b"}), StringsValue([]string{"A", "z"}), 1},
		{"missing after present", Missing(), NumberValue(1), 1},
		{"present before missing", NumberValue(1), Missing(), -1},
		{"both missing", Missing(), Missing(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}
