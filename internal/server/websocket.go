package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
)

// WebSocket message types.
const (
	WSTypeConnected = "connected"
	WSTypeEvent     = "event"
	WSTypeAck       = "ack"
	WSTypeError     = "error"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSRequest is a publish sent by a WebSocket client.
type WSRequest struct {
	Channel event.Channel   `json:"channel"`
	Payload json.RawMessage `json:"payload"`
	// Context publishes narrowly to one page context when set.
	Context string `json:"context,omitempty"`
}

// WSMessage is sent to WebSocket clients.
type WSMessage struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Channel  event.Channel   `json:"channel,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Channels []event.Channel `json:"channels,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn

	mu sync.Mutex
}

// write sends one message. gorilla connections allow a single writer at a time.
func (c *wsClient) write(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// handleWebSocket handles GET /ws
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	client := &wsClient{id: uuid.New().String(), conn: conn}
	s.addClient(client)
	defer s.removeClient(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, channels, err := s.subscribeMirror(ctx, parseChannelPatterns(r.URL.Query().Get("channels")))
	if err != nil {
		client.write(WSMessage{Type: WSTypeError, Error: err.Error()})
		return
	}
	if err := client.write(WSMessage{Type: WSTypeConnected, ClientID: client.id, Channels: channels}); err != nil {
		return
	}

	log := s.log.With().Str("client", client.id).Logger()
	log.Debug().Int("channels", len(channels)).Msg("websocket connected")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.pumpEvents(ctx, client, events)
	}()

	for {
		var req WSRequest
		if err := conn.ReadJSON(&req); err != nil {
			break
		}
		if err := s.publishRequest(req); err != nil {
			client.write(WSMessage{Type: WSTypeError, Channel: req.Channel, Error: err.Error()})
			continue
		}
		client.write(WSMessage{Type: WSTypeAck, Channel: req.Channel})
	}

	cancel()
	wg.Wait()
	log.Debug().Msg("websocket disconnected")
}

// pumpEvents forwards mirrored events to a client until ctx is done or a
// write fails.
func (s *Server) pumpEvents(ctx context.Context, client *wsClient, events <-chan StreamEvent) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				client.conn.Close()
				return
			}
			if err := client.write(WSMessage{Type: WSTypeEvent, Channel: evt.Channel, Payload: evt.Payload}); err != nil {
				client.conn.Close()
				return
			}
		case <-ticker.C:
			if err := client.ping(); err != nil {
				client.conn.Close()
				return
			}
		}
	}
}

func (s *Server) publishRequest(req WSRequest) error {
	msg, err := event.Decode(req.Channel, req.Payload)
	if err != nil {
		return err
	}
	origin := event.Broad()
	if req.Context != "" {
		origin = event.Narrow(req.Context)
	}
	s.bus.PublishFrom(origin, msg)
	return nil
}

func (s *Server) addClient(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *Server) removeClient(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c.id)
}

// closeClients drops every WebSocket connection.
func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.conn.Close()
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
