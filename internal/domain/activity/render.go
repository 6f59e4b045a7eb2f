package activity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type summarizer struct{}

func (summarizer) Order(o Order) string {
	return fmt.Sprintf("Order %s %s: %d item(s), %s", o.OrderID, o.Status, o.Items, o.Total.StringFixed(2))
}

func (summarizer) Ticket(t Ticket) string {
	return fmt.Sprintf("Ticket %s [%s/%s]: %s", t.TicketID, t.Priority, t.Status, t.Subject)
}

func (summarizer) ProfileUpdate(p ProfileUpdate) string {
	if p.From == "" {
		return fmt.Sprintf("Profile %s set to %q", p.Field, p.To)
	}
	return fmt.Sprintf("Profile %s changed from %q to %q", p.Field, p.From, p.To)
}

func (summarizer) CampaignTouch(c CampaignTouch) string {
	return fmt.Sprintf("Campaign %s %s via %s", c.CampaignID, c.Action, c.Channel)
}

func (summarizer) Payment(p Payment) string {
	return fmt.Sprintf("Payment %s %s: %s by %s", p.PaymentID, p.Status, p.Amount.StringFixed(2), p.Method)
}

// Summary renders a one-line description of a.
func Summary(a Activity) string { return Visit[string](a, summarizer{}) }

type amount struct{ value decimal.Decimal }

type amounter struct{}

func (amounter) Order(o Order) *amount               { return &amount{o.Total} }
func (amounter) Ticket(Ticket) *amount               { return nil }
func (amounter) ProfileUpdate(ProfileUpdate) *amount { return nil }
func (amounter) CampaignTouch(CampaignTouch) *amount { return nil }
func (amounter) Payment(p Payment) *amount           { return &amount{p.Amount} }

// Amount returns the money amount carried by a, if any.
func Amount(a Activity) (decimal.Decimal, bool) {
	if m := Visit[*amount](a, amounter{}); m != nil {
		return m.value, true
	}
	return decimal.Zero, false
}

type statuser struct{}

func (statuser) Order(o Order) string                 { return o.Status }
func (statuser) Ticket(t Ticket) string               { return t.Status }
func (statuser) ProfileUpdate(ProfileUpdate) string   { return "" }
func (statuser) CampaignTouch(c CampaignTouch) string { return c.Action }
func (statuser) Payment(p Payment) string             { return p.Status }

// Status returns the variant's status-like attribute, or "" when it has none.
func Status(a Activity) string { return Visit[string](a, statuser{}) }
