package timeline

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/activity"
)

// Event is one activity on a customer's timeline.
type Event struct {
	id         string
	customerID string
	at         time.Time
	activity   activity.Activity
}

// NewEvent validates and creates an event with a fresh ULID.
func NewEvent(customerID string, a activity.Activity, at time.Time) (Event, error) {
	if customerID == "" {
		return Event{}, fmt.Errorf("customer id is required")
	}
	if a == nil {
		return Event{}, fmt.Errorf("activity is required")
	}
	if at.IsZero() {
		return Event{}, fmt.Errorf("event time is required")
	}
	return Event{
		id:         ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		customerID: customerID,
		at:         at,
		activity:   a,
	}, nil
}

// ID returns the event ULID.
func (e Event) ID() string { return e.id }

// CustomerID returns the owning customer.
func (e Event) CustomerID() string { return e.customerID }

// At returns when the activity happened.
func (e Event) At() time.Time { return e.at }

// Activity returns the activity variant.
func (e Event) Activity() activity.Activity { return e.activity }

var eventTable = accessor.New(Event.ID).
	String("kind", func(e Event) string { return string(e.activity.Kind()) }).
	String("status", func(e Event) string { return activity.Status(e.activity) }).
	String("summary", func(e Event) string { return activity.Summary(e.activity) }, accessor.Searchable()).
	Date("at", Event.At).
	OptionalNumber("amount", func(e Event) (float64, bool) {
		v, ok := activity.Amount(e.activity)
		return v.InexactFloat64(), ok
	}).
	MustBuild()

// Accessors returns the accessor table used to query timelines.
func Accessors() *accessor.Table[Event] { return eventTable }
