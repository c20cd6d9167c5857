package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
)

// mockResponseWriter implements http.Flusher for testing
type mockResponseWriter struct {
	*httptest.ResponseRecorder
	flushed int
}

func (m *mockResponseWriter) Flush() {
	m.flushed++
}

func newMockResponseWriter() *mockResponseWriter {
	return &mockResponseWriter{
		ResponseRecorder: httptest.NewRecorder(),
	}
}

func TestNewSSEWriter(t *testing.T) {
	w := newMockResponseWriter()
	sse, err := newSSEWriter(w)
	if err != nil {
		t.Fatalf("newSSEWriter failed: %v", err)
	}
	if sse == nil {
		t.Fatal("SSE writer should not be nil")
	}
}

func TestNewSSEWriter_NoFlusher(t *testing.T) {
	w := &noFlushWriter{}
	_, err := newSSEWriter(w)
	if err == nil {
		t.Error("Expected error for writer without Flusher")
	}
}

type noFlushWriter struct{}

func (n *noFlushWriter) Header() http.Header       { return http.Header{} }
func (n *noFlushWriter) Write([]byte) (int, error) { return 0, nil }
func (n *noFlushWriter) WriteHeader(int)           {}

func TestSSEWriter_WriteEvent(t *testing.T) {
	w := newMockResponseWriter()
	sse, _ := newSSEWriter(w)

	err := sse.writeEvent("boat.message", StreamEvent{Channel: "boat.message", Payload: []byte(`{"recordId":"b1"}`)})
	if err != nil {
		t.Fatalf("writeEvent failed: %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "event: boat.message\n") {
		t.Error("Expected event line")
	}
	if !strings.Contains(body, `"payload":{"recordId":"b1"}`) {
		t.Errorf("Expected payload to be embedded verbatim, got: %s", body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Error("Expected blank line terminating the event")
	}
	if w.flushed == 0 {
		t.Error("Expected Flush to be called")
	}
}

func TestSSEWriter_WriteHeartbeat(t *testing.T) {
	w := newMockResponseWriter()
	sse, _ := newSSEWriter(w)

	sse.writeHeartbeat()

	body := w.Body.String()
	if !strings.Contains(body, ": heartbeat\n") {
		t.Errorf("Expected heartbeat comment, got: %s", body)
	}
	if w.flushed == 0 {
		t.Error("Expected Flush to be called")
	}
}

func TestParseChannelPatterns(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"boat.*", []string{"boat.*"}},
		{" boat.message , boat.search.** ,", []string{"boat.message", "boat.search.**"}},
		{",,", nil},
	}

	for _, tt := range tests {
		got := parseChannelPatterns(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseChannelPatterns(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSubscribeMirror_FansInMatchingChannels(t *testing.T) {
	srv, bus := setupTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, channels, err := srv.subscribeMirror(ctx, []string{"boat.select", "boat.review.*"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []event.Channel{event.BoatSelectChannel, event.ReviewCreatedChannel}, channels)

	bus.Publish(event.BoatMessage{RecordID: "b1"})
	bus.Publish(event.BoatSelect{RecordID: "b2"})

	select {
	case evt := <-events:
		assert.Equal(t, event.BoatSelectChannel, evt.Channel)
		assert.JSONEq(t, `{"recordId":"b2"}`, string(evt.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mirrored event")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "stream should close with its context")
}

func TestSubscribeMirror_NoMatch(t *testing.T) {
	srv, _ := setupTestServer(t)

	events, channels, err := srv.subscribeMirror(context.Background(), []string{"weather.*"})
	require.NoError(t, err)
	assert.Empty(t, channels)

	_, ok := <-events
	assert.False(t, ok, "empty stream should be closed")
}
