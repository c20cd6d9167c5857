package event

import (
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Registry maps channels to their live subscribers in registration order.
// It is the only shared mutable state of the bus; readers always work on a
// snapshot so a delivery pass never observes concurrent changes.
type Registry struct {
	mu       sync.RWMutex
	channels map[Channel][]*Subscription
	nextSeq  uint64
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[Channel][]*Subscription),
	}
}

// Register adds a subscriber to a channel and returns its handle.
func (r *Registry) Register(ch Channel, aud Audience, cb Callback) (*Subscription, error) {
	if cb == nil {
		return nil, ErrInvalidSubscriber
	}
	if ch == "" {
		return nil, ErrInvalidChannel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrBusClosed
	}

	r.nextSeq++
	sub := &Subscription{
		id:       ulid.Make().String(),
		seq:      r.nextSeq,
		channel:  ch,
		audience: aud,
		callback: cb,
		registry: r,
	}
	r.channels[ch] = append(r.channels[ch], sub)
	return sub, nil
}

// Unregister removes a subscription. Unknown, foreign or already removed
// handles are ignored.
func (r *Registry) Unregister(sub *Subscription) {
	if sub == nil || sub.registry != r {
		return
	}
	if sub.cancelled.Swap(true) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.channels[sub.channel]
	subs = slices.DeleteFunc(subs, func(s *Subscription) bool { return s == sub })
	if len(subs) == 0 {
		delete(r.channels, sub.channel)
		return
	}
	r.channels[sub.channel] = subs
}

// SubscribersOf returns the callbacks registered on a channel, in registration
// order. The result is a copy taken at call time.
func (r *Registry) SubscribersOf(ch Channel) []Callback {
	subs := r.snapshot(ch)
	callbacks := make([]Callback, len(subs))
	for i, s := range subs {
		callbacks[i] = s.callback
	}
	return callbacks
}

// Subscriptions returns the live handles on a channel, in registration order.
func (r *Registry) Subscriptions(ch Channel) []*Subscription {
	return r.snapshot(ch)
}

// Count returns the number of live subscriptions across all channels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, subs := range r.channels {
		n += len(subs)
	}
	return n
}

func (r *Registry) snapshot(ch Channel) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.channels[ch])
}

// close cancels every subscription and rejects further registrations.
func (r *Registry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for _, subs := range r.channels {
		for _, s := range subs {
			s.cancelled.Store(true)
		}
	}
	r.channels = make(map[Channel][]*Subscription)
}
