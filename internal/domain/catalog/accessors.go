package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
)

func money(d decimal.Decimal) float64 { return d.InexactFloat64() }

var campaignTable = accessor.New(func(c Campaign) string { return c.ID }).
	String("name", func(c Campaign) string { return c.Name }, accessor.Searchable()).
	String("channel", func(c Campaign) string { return c.Channel }).
	String("status", func(c Campaign) string { return c.Status }).
	Strings("tags", func(c Campaign) []string { return c.Tags }).
	Number("budget", func(c Campaign) float64 { return money(c.Budget) }).
	Number("revenue", func(c Campaign) float64 { return money(c.Revenue) }).
	Number("conversions", func(c Campaign) float64 { return float64(c.Conversions) }).
	Number("roas", func(c Campaign) float64 { return money(c.ROAS()) }).
	Date("startDate", func(c Campaign) time.Time { return c.StartDate }).
	Date("endDate", func(c Campaign) time.Time { return c.EndDate }).
	Date("createdAt", func(c Campaign) time.Time { return c.CreatedAt }).
	MustBuild()

var couponTable = accessor.New(func(c Coupon) string { return c.ID }).
	String("code", func(c Coupon) string { return c.Code }, accessor.Searchable()).
	String("description", func(c Coupon) string { return c.Description }, accessor.Searchable()).
	String("status", func(c Coupon) string { return c.Status }).
	String("discountType", func(c Coupon) string { return c.DiscountType }).
	Number("discountValue", func(c Coupon) float64 { return money(c.DiscountValue) }).
	Number("usageCount", func(c Coupon) float64 { return float64(c.UsageCount) }).
	OptionalNumber("usageLimit", func(c Coupon) (float64, bool) {
		if c.UsageLimit == nil {
			return 0, false
		}
		return float64(*c.UsageLimit), true
	}).
	Date("validFrom", func(c Coupon) time.Time { return c.ValidFrom }).
	Date("validUntil", func(c Coupon) time.Time { return c.ValidUntil }).
	MustBuild()

var productTable = accessor.New(func(p Product) string { return p.ID }).
	String("name", func(p Product) string { return p.Name }, accessor.Searchable()).
	String("sku", func(p Product) string { return p.SKU }, accessor.Searchable()).
	String("category", func(p Product) string { return p.Category }).
	String("status", func(p Product) string { return p.Status }).
	Strings("tags", func(p Product) []string { return p.Tags }).
	Number("price", func(p Product) float64 { return money(p.Price) }).
	Number("stock", func(p Product) float64 { return float64(p.Stock) }).
	OptionalNumber("rating", func(p Product) (float64, bool) { return p.Rating, p.Rating > 0 }).
	Date("createdAt", func(p Product) time.Time { return p.CreatedAt }).
	Date("lastUpdated", Product.UpdatedAt).
	MustBuild()

var customerTable = accessor.New(func(c Customer) string { return c.ID }).
	String("name", func(c Customer) string { return c.Name }, accessor.Searchable()).
	String("email", func(c Customer) string { return c.Email }, accessor.Searchable()).
	String("company", func(c Customer) string { return c.Company }, accessor.Searchable()).
	String("segment", func(c Customer) string { return c.Segment }).
	String("status", func(c Customer) string { return c.Status }).
	Strings("tags", func(c Customer) []string { return c.Tags }).
	Number("lifetimeValue", func(c Customer) float64 { return money(c.LifetimeValue) }).
	Number("orders", func(c Customer) float64 { return float64(c.Orders) }).
	Date("createdAt", func(c Customer) time.Time { return c.CreatedAt }).
	Date("lastSeen", func(c Customer) time.Time { return c.LastSeen }).
	MustBuild()

// CampaignAccessors returns the accessor table for campaigns.
func CampaignAccessors() *accessor.Table[Campaign] { return campaignTable }

// CouponAccessors returns the accessor table for coupons.
func CouponAccessors() *accessor.Table[Coupon] { return couponTable }

// ProductAccessors returns the accessor table for products.
func ProductAccessors() *accessor.Table[Product] { return productTable }

// CustomerAccessors returns the accessor table for customers.
func CustomerAccessors() *accessor.Table[Customer] { return customerTable }
