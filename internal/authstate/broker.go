// Package authstate delivers auth-state change notifications (sign-in,
// sign-out, token refresh) to interested subscribers as an explicit event
// channel with a cancellation token, replacing the implicit listener
// callback of the client SDK.
package authstate

import (
	"context"
	"sync"
	"time"
)

// EventType identifies the kind of auth-state change
type EventType string

// Auth-state event types
const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventRefreshed EventType = "refreshed"
)

// Event represents a single auth-state change notification
type Event struct {
	Type    EventType `json:"type"`
	UID     string    `json:"uid"`
	Email   string    `json:"email,omitempty"`
	Name    string    `json:"name,omitempty"`
	Picture string    `json:"picture,omitempty"`
	At      time.Time `json:"at"`
}

// subscriberBuffer bounds the per-subscriber channel. A subscriber that
// falls this far behind is detached rather than buffered further, which
// preserves delivery order for everyone else.
const subscriberBuffer = 16

// Subscription is a handle to a single subscriber. Cancel detaches the
// subscriber and closes its event channel; it is safe to call more than
// once and safe to call concurrently with Publish.
type Subscription struct {
	broker *Broker
	ch     chan Event
	once   sync.Once
}

// Events returns the channel on which events are delivered, in publish
// order. The channel is closed when the subscription is cancelled or the
// broker shuts down.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel detaches the subscriber
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.ch)
	})
}

// Broker fans auth-state events out to subscribers. Each subscriber sees
// events in the order they were published; no coalescing is performed.
type Broker struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. The subscription is cancelled
// automatically when ctx is done, mirroring listener teardown on the
// client side.
func (b *Broker) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		broker: b,
		ch:     make(chan Event, subscriberBuffer),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		// Close through the once so a later Cancel stays a no-op
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	return sub
}

// Publish delivers an event to all current subscribers. Delivery is
// non-blocking: a subscriber whose buffer is full is detached.
func (b *Broker) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	// Channels in the map are only ever closed after removal from the
	// map, and removal requires this lock, so sending here cannot race
	// with a close.
	var slow []*Subscription
	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			// Slow consumer: detach instead of blocking the publisher
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		go sub.Cancel()
	}
}

// Close shuts down the broker and cancels all subscriptions
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[*Subscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() {
			close(sub.ch)
		})
	}
}

// remove unregisters a subscription without closing its channel
func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}
