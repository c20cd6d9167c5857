// Package lifecycle ties bus subscriptions to widget mount and unmount, so a
// widget holds at most one live subscription per channel and none after unmount.
package lifecycle

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

// ErrInvalidWidget is returned when a widget is nil or has no identifier.
var ErrInvalidWidget = errors.New("invalid widget: missing identifier")

// Widget is anything with a stable identity that owns subscriptions.
type Widget interface {
	WidgetID() string
}

// Binding describes one subscription a widget wants while mounted.
type Binding struct {
	Channel  event.Channel
	Audience event.Audience
	Callback event.Callback
}

// Adapter creates subscriptions on mount and cancels them on unmount.
//
// Per widget and channel the state is either unsubscribed or subscribed.
// OnMount moves to subscribed; OnUnmount, or cancelling the handle directly,
// moves back. OnMount while subscribed returns the existing handle.
type Adapter struct {
	bus *event.Bus
	log zerolog.Logger

	mu    sync.Mutex
	owned map[string]map[event.Channel]*event.Subscription
}

// New creates an adapter over bus.
func New(bus *event.Bus) *Adapter {
	return &Adapter{
		bus:   bus,
		log:   logging.Component("lifecycle"),
		owned: make(map[string]map[event.Channel]*event.Subscription),
	}
}

// Bus returns the underlying bus.
func (a *Adapter) Bus() *event.Bus {
	return a.bus
}

// OnMount subscribes w to ch unless it already holds a live subscription there.
func (a *Adapter) OnMount(w Widget, ch event.Channel, aud event.Audience, cb event.Callback) (*event.Subscription, error) {
	id, err := widgetID(w)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if sub := a.owned[id][ch]; sub.Active() {
		return sub, nil
	}

	sub, err := a.bus.Subscribe(ch, aud, cb)
	if err != nil {
		return nil, err
	}
	if a.owned[id] == nil {
		a.owned[id] = make(map[event.Channel]*event.Subscription)
	}
	a.owned[id][ch] = sub

	a.log.Debug().
		Str("widget", id).
		Str("channel", string(ch)).
		Str("audience", aud.String()).
		Msg("subscribed")
	return sub, nil
}

// OnUnmount cancels every subscription owned by w. Unmounting a widget that
// is not mounted does nothing.
func (a *Adapter) OnUnmount(w Widget) {
	id, err := widgetID(w)
	if err != nil {
		return
	}

	a.mu.Lock()
	subs := a.owned[id]
	delete(a.owned, id)
	a.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	if len(subs) > 0 {
		a.log.Debug().Str("widget", id).Int("subscriptions", len(subs)).Msg("unsubscribed")
	}
}

// Mount applies every binding for w. If a binding fails, everything w holds is
// released and the error returned. The release function unmounts w.
func (a *Adapter) Mount(w Widget, bindings ...Binding) (release func(), err error) {
	for _, b := range bindings {
		if _, err := a.OnMount(w, b.Channel, b.Audience, b.Callback); err != nil {
			a.OnUnmount(w)
			return func() {}, err
		}
	}
	return func() { a.OnUnmount(w) }, nil
}

// Subscribed reports whether w holds a live subscription on ch.
func (a *Adapter) Subscribed(w Widget, ch event.Channel) bool {
	id, err := widgetID(w)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owned[id][ch].Active()
}

// Subscriptions returns the live subscriptions owned by w.
func (a *Adapter) Subscriptions(w Widget) []*event.Subscription {
	id, err := widgetID(w)
	if err != nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	var subs []*event.Subscription
	for _, sub := range a.owned[id] {
		if sub.Active() {
			subs = append(subs, sub)
		}
	}
	return subs
}

// Count returns the number of live subscriptions across all widgets.
func (a *Adapter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, subs := range a.owned {
		for _, sub := range subs {
			if sub.Active() {
				n++
			}
		}
	}
	return n
}

func widgetID(w Widget) (string, error) {
	if w == nil {
		return "", ErrInvalidWidget
	}
	id := w.WidgetID()
	if id == "" {
		return "", ErrInvalidWidget
	}
	return id, nil
}
