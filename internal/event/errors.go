package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrInvalidSubscriber is returned when a subscription is registered without a callback.
	ErrInvalidSubscriber = errors.New("invalid subscriber: callback is nil")

	// ErrInvalidChannel is returned when a channel identifier is empty.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrUnknownChannel is returned when decoding a payload for a channel with no message type.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrInvalidPayload is returned when a decoded payload is missing required fields.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrBusClosed is returned when subscribing on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrDeliveryFault matches any *DeliveryFault via errors.Is.
	ErrDeliveryFault = errors.New("delivery fault")
)

// DeliveryFault records a subscriber callback that panicked during delivery.
// The fault is reported and delivery continues with the next subscriber.
type DeliveryFault struct {
	// Channel is the channel being delivered.
	Channel Channel

	// SubscriptionID identifies the failing subscriber.
	SubscriptionID string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack string
}

// Error implements the error interface.
func (f *DeliveryFault) Error() string {
	return fmt.Sprintf("delivery fault on channel %s for subscription %s: %v", f.Channel, f.SubscriptionID, f.Value)
}

// Is allows errors.Is to match DeliveryFault with ErrDeliveryFault.
func (f *DeliveryFault) Is(target error) bool {
	return target == ErrDeliveryFault
}

// Unwrap returns the panic value when it is an error.
func (f *DeliveryFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}
