package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

// MetadataChannel is the watermill metadata key holding the source channel.
const MetadataChannel = "channel"

// MirrorConfig configures a Mirror.
type MirrorConfig struct {
	// Patterns are doublestar globs selecting the channels to mirror.
	// Empty means every channel.
	Patterns []string
	// Buffer is the gochannel output buffer per subscriber.
	Buffer int64
}

// Mirror republishes bus messages onto a watermill gochannel, one topic per
// channel, so out-of-process consumers (SSE, WebSocket) can read them without
// registering callbacks on the bus itself.
type Mirror struct {
	pubsub *gochannel.GoChannel
	subs   []*Subscription
}

// NewMirror subscribes to every matching channel on bus.
func NewMirror(bus *Bus, cfg MirrorConfig) (*Mirror, error) {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100
	}
	m := &Mirror{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: cfg.Buffer,
				Persistent:          false,
			},
			logging.Watermill(),
		),
	}

	for _, ch := range Channels() {
		if !MatchChannel(cfg.Patterns, ch) {
			continue
		}
		sub, err := bus.Subscribe(ch, Broad(), m.forward)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.subs = append(m.subs, sub)
	}
	return m, nil
}

// MatchChannel reports whether ch matches any of the glob patterns.
// An empty pattern list matches everything.
func MatchChannel(patterns []string, ch Channel) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, string(ch)); err == nil && ok {
			return true
		}
	}
	return false
}

func (m *Mirror) forward(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		panic(fmt.Errorf("mirror: marshal %s: %w", msg.Channel(), err))
	}

	wm := message.NewMessage(watermill.NewUUID(), payload)
	wm.Metadata.Set(MetadataChannel, string(msg.Channel()))
	if err := m.pubsub.Publish(string(msg.Channel()), wm); err != nil {
		logging.Warn().Err(err).Str("channel", string(msg.Channel())).Msg("mirror publish failed")
	}
}

// Subscribe returns a stream of mirrored messages for one channel. The stream
// closes when ctx is done or the mirror is closed. Consumers must Ack each message.
func (m *Mirror) Subscribe(ctx context.Context, ch Channel) (<-chan *message.Message, error) {
	return m.pubsub.Subscribe(ctx, string(ch))
}

// Channels returns the channels this mirror forwards.
func (m *Mirror) Channels() []Channel {
	chs := make([]Channel, 0, len(m.subs))
	for _, s := range m.subs {
		chs = append(chs, s.Channel())
	}
	return chs
}

// Close detaches the mirror from the bus and closes the gochannel.
func (m *Mirror) Close() error {
	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
	return m.pubsub.Close()
}

// DecodeMirrored converts a mirrored watermill message back to a bus message.
func DecodeMirrored(wm *message.Message) (Message, error) {
	return Decode(Channel(wm.Metadata.Get(MetadataChannel)), wm.Payload)
}
