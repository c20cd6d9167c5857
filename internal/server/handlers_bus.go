package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/internal/widget"
)

// maxPublishBody limits publish payloads.
const maxPublishBody = 1 << 20

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string      `json:"status"`
	Bus    event.Stats `json:"bus"`
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Bus: s.bus.Stats()})
}

// PublishResponse is the body returned by POST /publish/{channel}.
type PublishResponse struct {
	Channel event.Channel `json:"channel"`
	Context string        `json:"context,omitempty"`
}

// publish handles POST /publish/{channel}. A context query parameter
// publishes narrowly to that page context.
//
// The reply is 202: when another goroutine (a request, the seed watcher) is
// mid-delivery, the message is queued and delivered by that goroutine, so
// the hosted page may not reflect it yet when the response is written.
func (s *Server) publish(w http.ResponseWriter, r *http.Request) {
	ch := event.Channel(chi.URLParam(r, "channel"))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPublishBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Failed to read body")
		return
	}

	msg, err := event.Decode(ch, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	origin := event.Broad()
	if pageCtx := r.URL.Query().Get("context"); pageCtx != "" {
		origin = event.Narrow(pageCtx)
	}
	s.bus.PublishFrom(origin, msg)

	writeJSON(w, http.StatusAccepted, PublishResponse{Channel: ch, Context: origin.Context})
}

// ChannelInfo describes one bus channel.
type ChannelInfo struct {
	Channel     event.Channel `json:"channel"`
	Subscribers int           `json:"subscribers"`
	Mirrored    bool          `json:"mirrored"`
}

// listChannels handles GET /channels
func (s *Server) listChannels(w http.ResponseWriter, r *http.Request) {
	mirrored := make(map[event.Channel]bool)
	for _, ch := range s.mirror.Channels() {
		mirrored[ch] = true
	}

	var infos []ChannelInfo
	for _, ch := range event.Channels() {
		infos = append(infos, ChannelInfo{
			Channel:     ch,
			Subscribers: len(s.bus.Registry().SubscribersOf(ch)),
			Mirrored:    mirrored[ch],
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

// PageResponse is the body of GET /page.
type PageResponse struct {
	widget.PageState
	Toasts     []notify.Toast             `json:"toasts"`
	Navigation []navigation.PageReference `json:"navigation"`
}

// getPage handles GET /page
func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PageResponse{
		PageState:  s.page.State(),
		Toasts:     s.toasts.Toasts(),
		Navigation: s.nav.History(),
	})
}
