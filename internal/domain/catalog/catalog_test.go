package catalog

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func TestCampaign_ROAS(t *testing.T) {
	c := Campaign{Budget: decimal.RequireFromString("200"), Revenue: decimal.RequireFromString("500")}
	if !c.ROAS().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("ROAS() = %s, want 2.5", c.ROAS())
	}
	if !(Campaign{}).ROAS().IsZero() {
		t.Error("ROAS() without budget should be zero")
	}
}

func TestCoupon_Remaining(t *testing.T) {
	limit := 10
	tests := []struct {
		name        string
		c           Coupon
		want        int
		wantLimited bool
	}{
		{"unlimited", Coupon{UsageCount: 4}, 0, false},
		{"some left", Coupon{UsageCount: 4, UsageLimit: &limit}, 6, true},
		{"overused", Coupon{UsageCount: 14, UsageLimit: &limit}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, limited := tt.c.Remaining()
			if got != tt.want || limited != tt.wantLimited {
				t.Errorf("Remaining() = %d, %v; want %d, %v", got, limited, tt.want, tt.wantLimited)
			}
		})
	}
}

func TestProduct_UpdatedAtFallback(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	if got := (Product{CreatedAt: created}).UpdatedAt(); !got.Equal(created) {
		t.Errorf("fallback = %v, want createdAt", got)
	}
	if got := (Product{CreatedAt: created, LastUpdated: updated}).UpdatedAt(); !got.Equal(updated) {
		t.Errorf("UpdatedAt() = %v, want lastUpdated", got)
	}
	if got := (Product{}).UpdatedAt(); !got.IsZero() {
		t.Errorf("UpdatedAt() = %v, want zero", got)
	}
}

func TestAccessorTables(t *testing.T) {
	tests := []struct {
		name       string
		fields     int
		searchable []string
	}{
		{Campaigns, len(CampaignAccessors().Fields()), CampaignAccessors().Searchable()},
		{Coupons, len(CouponAccessors().Fields()), CouponAccessors().Searchable()},
		{Products, len(ProductAccessors().Fields()), ProductAccessors().Searchable()},
		{Customers, len(CustomerAccessors().Fields()), CustomerAccessors().Searchable()},
	}
	want := map[string][]string{
		Campaigns: {"name"},
		Coupons:   {"code", "description"},
		Products:  {"name", "sku"},
		Customers: {"name", "email", "company"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fields == 0 {
				t.Fatal("no fields registered")
			}
			if diff := cmp.Diff(want[tt.name], tt.searchable); diff != "" {
				t.Errorf("searchable mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCouponUsageLimitMissing(t *testing.T) {
	_, get, ok := CouponAccessors().Lookup("usageLimit")
	if !ok {
		t.Fatal("usageLimit accessor missing")
	}
	if !get(Coupon{}).IsMissing() {
		t.Error("nil usage limit should read as missing")
	}
}

func TestDecodeYAML(t *testing.T) {
	raw := `
- id: cus-1
  name: Dana Whitfield
  email: dana@acme.io
  company: Acme
  segment: enterprise
  status: Active
  tags: [vip, b2b]
  lifetime_value: "12500.50"
  orders: 14
  created_at: 2024-02-10T09:00:00Z
`
	var got []Customer
	if err := yaml.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d customers", len(got))
	}
	c := got[0]
	if !c.LifetimeValue.Equal(decimal.RequireFromString("12500.5")) {
		t.Errorf("LifetimeValue = %s", c.LifetimeValue)
	}
	if c.CreatedAt.Year() != 2024 || !c.LastSeen.IsZero() {
		t.Errorf("dates = %v / %v", c.CreatedAt, c.LastSeen)
	}
	_, get, _ := CustomerAccessors().Lookup("lifetimeValue")
	if v := get(c).Num(); v != 12500.5 {
		t.Errorf("lifetimeValue accessor = %v", v)
	}
}
