// Package catalog defines the back-office record kinds served as datasets:
// campaigns, coupons, products and customers.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dataset names.
const (
	Campaigns = "campaigns"
	Coupons   = "coupons"
	Products  = "products"
	Customers = "customers"
)

// Campaign is a marketing campaign.
type Campaign struct {
	ID          string          `yaml:"id" json:"id" validate:"required"`
	Name        string          `yaml:"name" json:"name" validate:"required"`
	Channel     string          `yaml:"channel" json:"channel"`
	Status      string          `yaml:"status" json:"status" validate:"required"`
	Tags        []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	Budget      decimal.Decimal `yaml:"budget" json:"budget"`
	Revenue     decimal.Decimal `yaml:"revenue" json:"revenue"`
	Conversions int             `yaml:"conversions" json:"conversions" validate:"gte=0"`
	StartDate   time.Time       `yaml:"start_date,omitempty" json:"startDate,omitzero"`
	EndDate     time.Time       `yaml:"end_date,omitempty" json:"endDate,omitzero"`
	CreatedAt   time.Time       `yaml:"created_at" json:"createdAt"`
}

// ROAS returns revenue over budget, or zero without a budget.
func (c Campaign) ROAS() decimal.Decimal {
	if c.Budget.IsZero() {
		return decimal.Zero
	}
	return c.Revenue.DivRound(c.Budget, 4)
}

// Coupon is a discount code.
type Coupon struct {
	ID            string          `yaml:"id" json:"id" validate:"required"`
	Code          string          `yaml:"code" json:"code" validate:"required"`
	Description   string          `yaml:"description" json:"description"`
	Status        string          `yaml:"status" json:"status" validate:"required"`
	DiscountType  string          `yaml:"discount_type" json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `yaml:"discount_value" json:"discountValue"`
	UsageCount    int             `yaml:"usage_count" json:"usageCount" validate:"gte=0"`
	UsageLimit    *int            `yaml:"usage_limit,omitempty" json:"usageLimit,omitempty" validate:"omitempty,gt=0"`
	ValidFrom     time.Time       `yaml:"valid_from,omitempty" json:"validFrom,omitzero"`
	ValidUntil    time.Time       `yaml:"valid_until,omitempty" json:"validUntil,omitzero"`
}

// Remaining returns how many redemptions are left and whether the coupon is limited at all.
func (c Coupon) Remaining() (int, bool) {
	if c.UsageLimit == nil {
		return 0, false
	}
	return max(*c.UsageLimit-c.UsageCount, 0), true
}

// Product is a catalog item.
type Product struct {
	ID          string          `yaml:"id" json:"id" validate:"required"`
	Name        string          `yaml:"name" json:"name" validate:"required"`
	SKU         string          `yaml:"sku" json:"sku"`
	Category    string          `yaml:"category" json:"category"`
	Status      string          `yaml:"status" json:"status" validate:"required"`
	Tags        []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Stock       int             `yaml:"stock" json:"stock"`
	Rating      float64         `yaml:"rating,omitempty" json:"rating,omitempty" validate:"gte=0,lte=5"`
	CreatedAt   time.Time       `yaml:"created_at" json:"createdAt"`
	LastUpdated time.Time       `yaml:"last_updated,omitempty" json:"lastUpdated,omitzero"`
}

// UpdatedAt returns LastUpdated, falling back to CreatedAt. Zero when neither is set.
func (p Product) UpdatedAt() time.Time {
	if !p.LastUpdated.IsZero() {
		return p.LastUpdated
	}
	return p.CreatedAt
}

// Customer is a CRM contact.
type Customer struct {
	ID            string          `yaml:"id" json:"id" validate:"required"`
	Name          string          `yaml:"name" json:"name" validate:"required"`
	Email         string          `yaml:"email" json:"email" validate:"omitempty,email"`
	Company       string          `yaml:"company,omitempty" json:"company,omitempty"`
	Segment       string          `yaml:"segment" json:"segment"`
	Status        string          `yaml:"status" json:"status" validate:"required"`
	Tags          []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	LifetimeValue decimal.Decimal `yaml:"lifetime_value" json:"lifetimeValue"`
	Orders        int             `yaml:"orders" json:"orders" validate:"gte=0"`
	CreatedAt     time.Time       `yaml:"created_at" json:"createdAt"`
	LastSeen      time.Time       `yaml:"last_seen,omitempty" json:"lastSeen,omitzero"`
}
