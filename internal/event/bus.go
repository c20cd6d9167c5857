// Package event provides the in-process pub/sub bus that keeps boat selection and
// search results consistent across independently mounted widgets.
package event

import (
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

// FaultHandler is called for every subscriber callback that panics.
type FaultHandler func(fault *DeliveryFault)

// delivery is one queued publication with the subscribers it was issued to.
type delivery struct {
	origin Audience
	msg    Message
	subs   []*Subscription
}

// Bus delivers messages synchronously to the subscribers of a channel, in
// registration order.
type Bus struct {
	registry *Registry
	onFault  FaultHandler
	log      zerolog.Logger

	mu          sync.Mutex
	queue       []delivery
	dispatching bool
	closed      bool

	published atomic.Uint64
	delivered atomic.Uint64
	faults    atomic.Uint64
}

// Option configures a Bus.
type Option func(*Bus)

// WithFaultHandler sets a handler that receives delivery faults in addition to
// the error log.
func WithFaultHandler(h FaultHandler) Option {
	return func(b *Bus) {
		b.onFault = h
	}
}

// WithRegistry makes the bus use an existing registry.
func WithRegistry(r *Registry) Option {
	return func(b *Bus) {
		b.registry = r
	}
}

// NewBus creates a new event bus. The caller owns it and must Close it at shutdown.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		registry: NewRegistry(),
		log:      logging.Component("event"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the bus registry.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Subscribe registers cb on a channel for the given audience.
func (b *Bus) Subscribe(ch Channel, aud Audience, cb Callback) (*Subscription, error) {
	return b.registry.Register(ch, aud, cb)
}

// Unsubscribe cancels a subscription. It is safe to call with a nil or
// already cancelled handle.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.registry.Unregister(sub)
}

// Publish delivers msg to every broad subscriber of its channel.
func (b *Bus) Publish(msg Message) {
	b.PublishFrom(Broad(), msg)
}

// PublishFrom delivers msg as published for origin. Each subscriber whose
// audience admits origin is called synchronously in registration order.
//
// The subscriber set is captured when PublishFrom is called, so subscribers
// that join afterwards never receive msg. A publish issued while another
// delivery pass is running (for example from inside a callback) is queued and
// delivered after the running pass completes, so every publish is delivered
// completely before the next one starts.
//
// When the running pass belongs to another goroutine, PublishFrom returns as
// soon as msg is queued and that goroutine delivers it. Callers that need the
// effects of msg must not assume they are visible when PublishFrom returns.
//
// Nil messages, including typed nil pointers, are dropped.
func (b *Bus) PublishFrom(origin Audience, msg Message) {
	if isNil(msg) {
		return
	}
	subs := b.registry.snapshot(msg.Channel())

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, delivery{origin: origin, msg: msg, subs: subs})
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	b.drain()
}

// drain delivers queued publications until the queue is empty. If delivery
// unwinds abnormally (a panic outside a callback, runtime.Goexit) the pending
// queue is dropped and the bus is left ready for the next publish.
func (b *Bus) drain() {
	finished := false
	defer func() {
		if finished {
			return
		}
		b.mu.Lock()
		b.queue = nil
		b.dispatching = false
		b.mu.Unlock()
	}()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.queue = nil
			b.dispatching = false
			b.mu.Unlock()
			finished = true
			return
		}
		d := b.queue[0]
		b.queue[0] = delivery{}
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.deliver(d)
	}
}

func (b *Bus) deliver(d delivery) {
	b.published.Add(1)

	b.log.Debug().
		Str("channel", string(d.msg.Channel())).
		Str("origin", d.origin.String()).
		Int("subscribers", len(d.subs)).
		Msg("publish")

	for _, sub := range d.subs {
		if !Admits(sub.audience, d.origin) {
			continue
		}
		b.invoke(sub, d.msg)
	}
}

func isNil(msg Message) bool {
	if msg == nil {
		return true
	}
	v := reflect.ValueOf(msg)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// invoke runs one callback, converting a panic into a DeliveryFault.
func (b *Bus) invoke(sub *Subscription, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.reportFault(&DeliveryFault{
				Channel:        sub.channel,
				SubscriptionID: sub.id,
				Value:          r,
				Stack:          string(debug.Stack()),
			})
		}
	}()

	sub.callback(msg)
	b.delivered.Add(1)
}

func (b *Bus) reportFault(fault *DeliveryFault) {
	b.faults.Add(1)
	b.log.Error().
		Str("channel", string(fault.Channel)).
		Str("subscription", fault.SubscriptionID).
		Interface("panic", fault.Value).
		Msg("delivery fault")

	if b.onFault == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("fault handler panicked")
		}
	}()
	b.onFault(fault)
}

// Close cancels every subscription and drops later publishes.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.queue = nil
	b.mu.Unlock()

	b.registry.close()
	return nil
}

// Stats contains bus delivery counters.
type Stats struct {
	// Published is the number of delivery passes run.
	Published uint64 `json:"published"`
	// Delivered is the number of callbacks that returned normally.
	Delivered uint64 `json:"delivered"`
	// Faults is the number of callbacks that panicked.
	Faults uint64 `json:"faults"`
	// Subscriptions is the number of live subscriptions.
	Subscriptions int `json:"subscriptions"`
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Faults:        b.faults.Load(),
		Subscriptions: b.registry.Count(),
	}
}

// On subscribes fn to the channel of M. M must be a value type whose zero
// value reports its channel, as all built-in message types do.
func On[M Message](b *Bus, aud Audience, fn func(M)) (*Subscription, error) {
	if fn == nil {
		return nil, ErrInvalidSubscriber
	}
	var zero M
	return b.Subscribe(zero.Channel(), aud, func(msg Message) {
		if m, ok := msg.(M); ok {
			fn(m)
		}
	})
}

// WithSubscription registers cb for the duration of body and cancels it when
// body returns.
func WithSubscription(b *Bus, ch Channel, aud Audience, cb Callback, body func() error) error {
	sub, err := b.Subscribe(ch, aud, cb)
	if err != nil {
		return err
	}
	defer sub.Cancel()
	return body()
}
