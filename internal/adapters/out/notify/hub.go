// Package notify fans events out to connected clients and optional sinks.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"driverdesk/internal/core/ports"

	"github.com/google/uuid"
)

// Sink receives every published batch, for example a message broker.
type Sink interface {
	Deliver(ctx context.Context, events []ports.Event) error
}

// SubscriberObserver is told the subscriber count after every change.
type SubscriberObserver interface {
	SubscribersChanged(n int)
}

// Subscription is one client's feed. C is closed when the hub drops the
// subscriber or Unsubscribe is called.
type Subscription struct {
	C <-chan ports.Event

	id  uint64
	ch  chan ports.Event
	hub *Hub
}

func (s *Subscription) Unsubscribe() {
	s.hub.remove(s.id)
}

// Hub implements ports.EventPublisher. A subscriber whose buffer is full is
// dropped; the others still receive the event.
type Hub struct {
	logger   *slog.Logger
	buffer   int
	now      func() time.Time
	sinks    []Sink
	observer SubscriberObserver

	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]chan ports.Event
}

type Option func(*Hub)

func WithSink(s Sink) Option {
	return func(h *Hub) { h.sinks = append(h.sinks, s) }
}

func WithObserver(o SubscriberObserver) Option {
	return func(h *Hub) { h.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// NewHub gives every subscriber a channel of buffer events.
func NewHub(logger *slog.Logger, buffer int, opts ...Option) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	h := &Hub{
		logger:      logger.With("component", "notify_hub"),
		buffer:      buffer,
		now:         time.Now,
		subscribers: make(map[uint64]chan ports.Event),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan ports.Event, h.buffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subscribers[id] = ch
	n := len(h.subscribers)
	h.mu.Unlock()

	h.observe(n)
	return &Subscription{C: ch, id: id, ch: ch, hub: h}
}

// Publish stamps missing ids and times, then delivers to subscribers and sinks.
func (h *Hub) Publish(ctx context.Context, events ...ports.Event) {
	if len(events) == 0 {
		return
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].At.IsZero() {
			events[i].At = h.now()
		}
	}

	h.mu.Lock()
	dropped := 0
	for id, ch := range h.subscribers {
		if !offer(ch, events) {
			delete(h.subscribers, id)
			close(ch)
			dropped++
		}
	}
	n := len(h.subscribers)
	h.mu.Unlock()

	if dropped > 0 {
		h.logger.Warn("dropped slow subscribers", "dropped", dropped, "remaining", n)
		h.observe(n)
	}

	for _, s := range h.sinks {
		if err := s.Deliver(ctx, events); err != nil {
			h.logger.Error("sink delivery failed", "error", err, "events", len(events))
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
	h.mu.Unlock()
	h.observe(0)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
		close(ch)
	}
	n := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		h.observe(n)
	}
}

func (h *Hub) observe(n int) {
	if h.observer != nil {
		h.observer.SubscribersChanged(n)
	}
}

// offer sends without blocking and reports whether every event fit.
func offer(ch chan ports.Event, events []ports.Event) bool {
	for _, e := range events {
		select {
		case ch <- e:
		default:
			return false
		}
	}
	return true
}
