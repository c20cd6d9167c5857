// Package sseclient reads Server-Sent Events streams such as the one served
// by the boatbus /event endpoint.
package sseclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HeartbeatEvent is the type recorded for comment lines.
const HeartbeatEvent = "heartbeat"

// ErrClosed is returned when waiting on a stream that has ended.
var ErrClosed = errors.New("sse: stream closed")

// Event is one Server-Sent Event.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client consumes one SSE stream.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu       sync.Mutex
	events   []Event
	eventsCh chan Event
	errCh    chan error
	cancel   context.CancelFunc
	body     io.ReadCloser
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 0, // No timeout for SSE
		},
		eventsCh: make(chan Event, 100),
		errCh:    make(chan error, 1),
	}
}

// Connect opens the stream at path and starts reading it in the background.
func (c *Client) Connect(ctx context.Context, path string) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to connect: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "text/event-stream") {
		resp.Body.Close()
		cancel()
		return fmt.Errorf("unexpected content type: %s", contentType)
	}

	c.body = resp.Body
	go c.readEvents(resp.Body)
	return nil
}

// readEvents parses the stream until it ends.
func (c *Client) readEvents(body io.Reader) {
	defer func() {
		close(c.eventsCh)
		close(c.errCh)
	}()

	reader := bufio.NewReader(body)
	var eventType string
	var eventData strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, context.Canceled) {
				c.errCh <- err
			}
			return
		}

		line = strings.TrimRight(line, "\r\n")

		// Empty line = event complete
		if line == "" {
			if eventData.Len() > 0 {
				c.record(Event{Type: eventType, Data: json.RawMessage(eventData.String())})
			}
			eventType = ""
			eventData.Reset()
			continue
		}

		// Comment (heartbeat)
		if strings.HasPrefix(line, ":") {
			c.record(Event{Type: HeartbeatEvent})
			continue
		}

		if v, ok := strings.CutPrefix(line, "event:"); ok {
			eventType = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "data:"); ok {
			if eventData.Len() > 0 {
				eventData.WriteByte('\n')
			}
			eventData.WriteString(strings.TrimSpace(v))
		}
	}
}

func (c *Client) record(evt Event) {
	c.mu.Lock()
	c.events = append(c.events, evt)
	c.mu.Unlock()

	select {
	case c.eventsCh <- evt:
	default:
		// Channel full, drop event
	}
}

// Events returns the event channel. It is closed when the stream ends.
func (c *Client) Events() <-chan Event {
	return c.eventsCh
}

// Errors returns the read error channel.
func (c *Client) Errors() <-chan error {
	return c.errCh
}

// WaitForEvent waits for an event of the given type.
func (c *Client) WaitForEvent(eventType string, timeout time.Duration) (*Event, error) {
	deadline := time.After(timeout)
	errCh := c.errCh
	for {
		select {
		case evt, ok := <-c.eventsCh:
			if !ok {
				return nil, ErrClosed
			}
			if evt.Type == eventType {
				return &evt, nil
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			return nil, err
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for event: %s", eventType)
		}
	}
}

// AllEvents returns every event received so far.
func (c *Client) AllEvents() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// CountEventType counts received events of a type.
func (c *Client) CountEventType(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, evt := range c.events {
		if evt.Type == eventType {
			count++
		}
	}
	return count
}

// Close ends the stream.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.body != nil {
		c.body.Close()
	}
}
