package timeline

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/metrics"
)

// DefaultBuffer is the subscription buffer used when none is given.
const DefaultBuffer = 64

// Topics.
const (
	TopicTimelinePrefix = "timeline."
	TopicTimelineAll    = "timeline.*"
	TopicDatasetChanged = "dataset.changed"
)

// TimelineTopic returns the topic carrying one customer's events.
func TimelineTopic(customerID string) string { return TopicTimelinePrefix + customerID }

// Message is one published event.
type Message struct {
	ID      string
	Topic   string
	At      time.Time
	Payload any
}

// Bus is an in-process publish/subscribe hub. Publish never blocks: a
// subscriber whose buffer is full misses the message and the drop is counted.
// A subscription topic ending in ".*" receives every topic with that prefix.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool
	now    func() time.Time
}

// NewBus creates an open bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]*Subscription), now: time.Now}
}

// Subscription is a live registration on a Bus. Close it when done.
type Subscription struct {
	id     string
	topic  string
	ch     chan Message
	bus    *Bus
	once   sync.Once
	closed bool
}

// ID returns the subscription id.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string { return s.topic }

// C returns the delivery channel. It is closed when the subscription or the bus closes.
func (s *Subscription) C() <-chan Message { return s.ch }

// Close unsubscribes and closes the channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		s.bus.removeLocked(s)
	})
}

func (s *Subscription) matches(topic string) bool {
	if prefix, ok := strings.CutSuffix(s.topic, "*"); ok {
		return strings.HasPrefix(topic, prefix)
	}
	return s.topic == topic
}

// Subscribe registers for topic. A buffer of zero or less uses DefaultBuffer.
func (b *Bus) Subscribe(topic string, buffer int) (*Subscription, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, domain.ErrBusClosed
	}
	s := &Subscription{
		id:    uuid.NewString(),
		topic: topic,
		ch:    make(chan Message, buffer),
		bus:   b,
	}
	b.subs[s.id] = s
	metrics.BusSubscribers.Inc()
	return s, nil
}

// Publish fans payload out to every matching subscription and returns the
// number of subscribers that received it.
func (b *Bus) Publish(topic string, payload any) (int, error) {
	msg := Message{ID: ulid.Make().String(), Topic: topic, At: b.now(), Payload: payload}
	family := topicFamily(topic)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, domain.ErrBusClosed
	}
	metrics.BusPublishedTotal.WithLabelValues(family).Inc()

	delivered := 0
	for _, s := range b.subs {
		if !s.matches(topic) {
			continue
		}
		select {
		case s.ch <- msg:
			delivered++
		default:
			metrics.BusDroppedTotal.WithLabelValues(family).Inc()
		}
	}
	return delivered, nil
}

// Len returns the number of open subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Ping reports domain.ErrBusClosed once the bus is closed.
func (b *Bus) Ping() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return domain.ErrBusClosed
	}
	return nil
}

// Close closes every subscription. Later Publish and Subscribe calls fail with domain.ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subs {
		b.removeLocked(s)
	}
}

// removeLocked drops s and closes its channel; b.mu must be held.
func (b *Bus) removeLocked(s *Subscription) {
	if s.closed {
		return
	}
	s.closed = true
	delete(b.subs, s.id)
	close(s.ch)
	metrics.BusSubscribers.Dec()
}

// topicFamily keeps metric labels bounded: "timeline.c-42" -> "timeline".
func topicFamily(topic string) string {
	family, _, _ := strings.Cut(topic, ".")
	return family
}
