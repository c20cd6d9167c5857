package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
)

const (
	// SSEHeartbeatInterval is the interval for SSE heartbeats.
	SSEHeartbeatInterval = 30 * time.Second

	// ConnectedEvent is the first event of every stream.
	ConnectedEvent = "server.connected"
)

// StreamEvent is one bus message as sent to streaming clients.
type StreamEvent struct {
	Channel event.Channel   `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// sseWriter wraps http.ResponseWriter for SSE.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
}

// newSSEWriter creates a new SSE writer.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	// Use ResponseController for more reliable flushing (Go 1.20+)
	rc := http.NewResponseController(w)

	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	return &sseWriter{w: w, flusher: flusher, rc: rc}, nil
}

// writeEvent writes an SSE event.
func (s *sseWriter) writeEvent(eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", eventType, jsonData)
	if err != nil {
		return err
	}

	if flushErr := s.rc.Flush(); flushErr != nil {
		s.flusher.Flush()
	}
	return nil
}

// writeHeartbeat writes an SSE heartbeat comment.
func (s *sseWriter) writeHeartbeat() {
	fmt.Fprintf(s.w, ": heartbeat\n\n")
	s.flusher.Flush()
}

// parseChannelPatterns splits the channels query parameter into globs.
func parseChannelPatterns(raw string) []string {
	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// subscribeMirror fans the mirrored channels matching patterns into one
// stream of StreamEvents. The stream closes when ctx is done.
func (s *Server) subscribeMirror(ctx context.Context, patterns []string) (<-chan StreamEvent, []event.Channel, error) {
	var (
		channels []event.Channel
		inputs   []<-chan *message.Message
	)
	for _, ch := range s.mirror.Channels() {
		if !event.MatchChannel(patterns, ch) {
			continue
		}
		msgs, err := s.mirror.Subscribe(ctx, ch)
		if err != nil {
			return nil, nil, err
		}
		channels = append(channels, ch)
		inputs = append(inputs, msgs)
	}

	out := make(chan StreamEvent, s.config.MirrorBuffer)
	done := make(chan struct{}, len(inputs))
	for _, msgs := range inputs {
		go func(msgs <-chan *message.Message) {
			defer func() { done <- struct{}{} }()
			for wm := range msgs {
				evt := StreamEvent{
					Channel: event.Channel(wm.Metadata.Get(event.MetadataChannel)),
					Payload: json.RawMessage(wm.Payload),
				}
				wm.Ack()
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}(msgs)
	}
	go func() {
		for range inputs {
			<-done
		}
		close(out)
	}()

	return out, channels, nil
}

// streamEvents handles GET /event
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, channels, err := s.subscribeMirror(ctx, parseChannelPatterns(r.URL.Query().Get("channels")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if len(channels) == 0 {
		writeError(w, http.StatusBadRequest, ErrCodeUnknownChannel, "no mirrored channel matches")
		return
	}

	// Explicitly write status and flush headers immediately
	w.WriteHeader(http.StatusOK)
	sse.flusher.Flush()

	if err := sse.writeEvent(ConnectedEvent, map[string]any{"channels": channels}); err != nil {
		return
	}

	// Heartbeat ticker
	ticker := time.NewTicker(SSEHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := sse.writeEvent(string(evt.Channel), evt); err != nil {
				return
			}
		case <-ticker.C:
			sse.writeHeartbeat()
		}
	}
}
