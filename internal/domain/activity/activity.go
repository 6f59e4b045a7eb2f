// Package activity models customer timeline activities as a closed sum type.
//
// Activity can only be implemented inside this package. Callers branch on the
// variant with Visit, which requires a Visitor covering every variant, so
// adding a variant breaks every dispatch site at compile time.
package activity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the wire tag of an activity variant.
type Kind string

// Activity kinds.
const (
	KindOrder         Kind = "order"
	KindTicket        Kind = "ticket"
	KindProfileUpdate Kind = "profile_update"
	KindCampaignTouch Kind = "campaign_touch"
	KindPayment       Kind = "payment"
)

// Kinds lists every activity kind in display order.
func Kinds() []Kind {
	return []Kind{KindOrder, KindTicket, KindProfileUpdate, KindCampaignTouch, KindPayment}
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindOrder, KindTicket, KindProfileUpdate, KindCampaignTouch, KindPayment:
		return true
	}
	return false
}

// Activity is one of Order, Ticket, ProfileUpdate, CampaignTouch or Payment.
type Activity interface {
	Kind() Kind
	sealed()
}

// Order is a placed order.
type Order struct {
	OrderID string          `json:"order_id" validate:"required"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items" validate:"gte=1"`
	Status  string          `json:"status" validate:"required,oneof=placed shipped delivered cancelled"`
}

// Ticket is a support ticket event.
type Ticket struct {
	TicketID string `json:"ticket_id" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Priority string `json:"priority" validate:"required,oneof=low medium high urgent"`
	Status   string `json:"status" validate:"required,oneof=open pending resolved closed"`
}

// ProfileUpdate records a change of one profile attribute.
type ProfileUpdate struct {
	Field string `json:"field" validate:"required"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// CampaignTouch is an interaction with a marketing campaign.
type CampaignTouch struct {
	CampaignID string `json:"campaign_id" validate:"required"`
	Channel    string `json:"channel" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=sent opened clicked converted"`
}

// Payment is a settled or failed payment.
type Payment struct {
	PaymentID string          `json:"payment_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required"`
	Status    string          `json:"status" validate:"required,oneof=succeeded failed refunded"`
}

func (Order) Kind() Kind         { return KindOrder }
func (Ticket) Kind() Kind        { return KindTicket }
func (ProfileUpdate) Kind() Kind { return KindProfileUpdate }
func (CampaignTouch) Kind() Kind { return KindCampaignTouch }
func (Payment) Kind() Kind       { return KindPayment }

func (Order) sealed()         {}
func (Ticket) sealed()        {}
func (ProfileUpdate) sealed() {}
func (CampaignTouch) sealed() {}
func (Payment) sealed()       {}

// Visitor handles every activity variant.
type Visitor[T any] interface {
	Order(Order) T
	Ticket(Ticket) T
	ProfileUpdate(ProfileUpdate) T
	CampaignTouch(CampaignTouch) T
	Payment(Payment) T
}

// Visit dispatches a to the matching visitor method.
func Visit[T any](a Activity, v Visitor[T]) T {
	switch x := a.(type) {
	case Order:
		return v.Order(x)
	case Ticket:
		return v.Ticket(x)
	case ProfileUpdate:
		return v.ProfileUpdate(x)
	case CampaignTouch:
		return v.CampaignTouch(x)
	case Payment:
		return v.Payment(x)
	}
	var zero T
	return zero
}

// Record is an activity attached to a customer at a point in time.
type Record struct {
	CustomerID string
	At         time.Time
	Activity   Activity
}
