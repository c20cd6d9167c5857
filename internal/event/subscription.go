package event

import "sync/atomic"

// Callback receives messages delivered on a channel.
type Callback func(msg Message)

// Subscription is the handle returned by Register. The registry owns the
// live entry; the handle only points back to it for cancellation.
type Subscription struct {
	id       string
	seq      uint64
	channel  Channel
	audience Audience
	callback Callback
	registry *Registry

	cancelled atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Seq returns the registration sequence number. Delivery follows ascending Seq.
func (s *Subscription) Seq() uint64 {
	return s.seq
}

// Channel returns the subscribed channel.
func (s *Subscription) Channel() Channel {
	return s.channel
}

// Audience returns the scope the subscription was registered with.
func (s *Subscription) Audience() Audience {
	return s.audience
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled.Load()
}

// Cancel unregisters the subscription. Calling Cancel more than once, or on a
// nil handle, does nothing.
func (s *Subscription) Cancel() {
	if s == nil || s.registry == nil {
		return
	}
	s.registry.Unregister(s)
}
