// Package timeline keeps per-customer activity timelines and announces
// changes on an event bus.
package timeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/domain/activity"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
	"github.com/kailas-cloud/listquery/internal/logger"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
)

// Service stores timeline events in memory and publishes each append.
type Service struct {
	customers CustomerDirectory
	bus       *Bus
	now       func() time.Time

	mu     sync.RWMutex
	events map[string][]Event
}

// New creates a timeline service that owns bus for its notifications.
func New(customers CustomerDirectory, bus *Bus) *Service {
	return &Service{
		customers: customers,
		bus:       bus,
		now:       time.Now,
		events:    make(map[string][]Event),
	}
}

// Bus returns the bus the service publishes on.
func (s *Service) Bus() *Bus { return s.bus }

// Append records a for customerID at the given time (now when zero) and
// publishes it on the customer's topic.
func (s *Service) Append(ctx context.Context, customerID string, a activity.Activity, at time.Time) (Event, error) {
	if err := s.checkCustomer(ctx, customerID); err != nil {
		return Event{}, err
	}
	if at.IsZero() {
		at = s.now().UTC()
	}
	ev, err := NewEvent(customerID, a, at)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", domain.ErrInvalidActivity, err)
	}

	s.mu.Lock()
	s.events[customerID] = append(s.events[customerID], ev)
	s.mu.Unlock()

	n, err := s.bus.Publish(TimelineTopic(customerID), ev)
	log := logger.FromContext(ctx)
	if err != nil {
		log.Warn("Timeline event not published", zap.String("customer", customerID), zap.Error(err))
	} else {
		log.Debug("Timeline event appended",
			zap.String("customer", customerID),
			zap.String("event", ev.ID()),
			zap.String("kind", string(a.Kind())),
			zap.Int("subscribers", n),
		)
	}
	return ev, nil
}

// Seed installs events without publishing them. Used when loading fixtures.
func (s *Service) Seed(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events[ev.CustomerID()] = append(s.events[ev.CustomerID()], ev)
	}
}

// Query runs a list query over one customer's events. Without an explicit
// sort the newest events come first.
func (s *Service) Query(
	ctx context.Context, customerID string, d descriptor.Descriptor, sel selection.Set,
) (result.Result[Event], error) {
	if err := s.checkCustomer(ctx, customerID); err != nil {
		return result.Result[Event]{}, err
	}

	s.mu.RLock()
	events := slices.Clone(s.events[customerID])
	s.mu.RUnlock()

	slices.SortStableFunc(events, func(a, b Event) int { return cmp.Compare(b.at.UnixNano(), a.at.UnixNano()) })

	res, err := listquery.Evaluate(events, d, eventTable, sel)
	if err != nil {
		return result.Result[Event]{}, fmt.Errorf("timeline %s: %w", customerID, err)
	}
	return res, nil
}

// Subscribe follows one customer's timeline, or every timeline when customerID is empty.
func (s *Service) Subscribe(customerID string, buffer int) (*Subscription, error) {
	topic := TopicTimelineAll
	if customerID != "" {
		topic = TimelineTopic(customerID)
	}
	sub, err := s.bus.Subscribe(topic, buffer)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return sub, nil
}

// Follow subscribes to the timeline of an existing customer.
func (s *Service) Follow(ctx context.Context, customerID string, buffer int) (*Subscription, error) {
	if err := s.checkCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.Subscribe(customerID, buffer)
}

func (s *Service) checkCustomer(ctx context.Context, customerID string) error {
	ok, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return fmt.Errorf("lookup customer %s: %w", customerID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	return nil
}

// Import seeds events built from fixture records. Records must name a customer and a time.
func (s *Service) Import(records []activity.Record) error {
	events := make([]Event, 0, len(records))
	for i, r := range records {
		ev, err := NewEvent(r.CustomerID, r.Activity, r.At)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		events = append(events, ev)
	}
	s.Seed(events)
	return nil
}
