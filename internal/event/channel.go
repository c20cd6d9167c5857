package event

import (
	"encoding/json"
	"fmt"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Channel names a logical topic.
type Channel string

const (
	// BoatMessageChannel carries the currently selected boat, optionally with a
	// snapshot of the record.
	BoatMessageChannel Channel = "boat.message"
	// BoatSelectChannel carries the selected boat id only.
	BoatSelectChannel Channel = "boat.select"
	// SearchResultsChannel carries the boats returned by the latest search.
	SearchResultsChannel Channel = "boat.search.results"
	// LoadingChannel carries search loading state.
	LoadingChannel Channel = "boat.search.loading"
	// ReviewCreatedChannel announces a newly created review.
	ReviewCreatedChannel Channel = "boat.review.created"
	// BoatListRefreshedChannel announces that the boat data set was reloaded.
	BoatListRefreshedChannel Channel = "boat.list.refreshed"
)

// Channels returns every channel that has a message type, in declaration order.
func Channels() []Channel {
	return []Channel{
		BoatMessageChannel,
		BoatSelectChannel,
		SearchResultsChannel,
		LoadingChannel,
		ReviewCreatedChannel,
		BoatListRefreshedChannel,
	}
}

// Message is a payload published on a channel. Each built-in channel has
// exactly one message type; the type names its channel.
type Message interface {
	Channel() Channel
}

// BoatMessage is published when a boat is selected.
// Boat is set when the publisher already holds the record.
type BoatMessage struct {
	RecordID string      `json:"recordId"`
	Boat     *types.Boat `json:"boatData,omitempty"`
}

// Channel implements Message.
func (BoatMessage) Channel() Channel { return BoatMessageChannel }

func (m BoatMessage) validate() error {
	if m.RecordID == "" {
		return fmt.Errorf("%w: recordId is required", ErrInvalidPayload)
	}
	return nil
}

// BoatSelect is the id-only selection message.
type BoatSelect struct {
	RecordID string `json:"recordId"`
}

// Channel implements Message.
func (BoatSelect) Channel() Channel { return BoatSelectChannel }

func (m BoatSelect) validate() error {
	if m.RecordID == "" {
		return fmt.Errorf("%w: recordId is required", ErrInvalidPayload)
	}
	return nil
}

// SearchResults is published after a boat search completes.
type SearchResults struct {
	BoatTypeID string       `json:"boatTypeId"`
	Boats      []types.Boat `json:"boats"`
}

// Channel implements Message.
func (SearchResults) Channel() Channel { return SearchResultsChannel }

// LoadingChanged is published when a search starts or finishes loading.
type LoadingChanged struct {
	Loading bool `json:"loading"`
}

// Channel implements Message.
func (LoadingChanged) Channel() Channel { return LoadingChannel }

// ReviewCreated is published after a review is saved.
type ReviewCreated struct {
	BoatID   string `json:"boatId"`
	ReviewID string `json:"reviewId"`
}

// Channel implements Message.
func (ReviewCreated) Channel() Channel { return ReviewCreatedChannel }

func (m ReviewCreated) validate() error {
	if m.BoatID == "" {
		return fmt.Errorf("%w: boatId is required", ErrInvalidPayload)
	}
	return nil
}

// BoatListRefreshed is published when the boat data set is reloaded.
type BoatListRefreshed struct {
	Count int `json:"count"`
}

// Channel implements Message.
func (BoatListRefreshed) Channel() Channel { return BoatListRefreshedChannel }

type validator interface {
	validate() error
}

var decoders = map[Channel]func([]byte) (Message, error){
	BoatMessageChannel:       decodeAs[BoatMessage],
	BoatSelectChannel:        decodeAs[BoatSelect],
	SearchResultsChannel:     decodeAs[SearchResults],
	LoadingChannel:           decodeAs[LoadingChanged],
	ReviewCreatedChannel:     decodeAs[ReviewCreated],
	BoatListRefreshedChannel: decodeAs[BoatListRefreshed],
}

func decodeAs[M Message](data []byte) (Message, error) {
	var m M
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if v, ok := any(m).(validator); ok {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Decode parses a JSON payload into the message type of the given channel.
func Decode(ch Channel, data []byte) (Message, error) {
	decode, ok := decoders[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
	}
	return decode(data)
}
