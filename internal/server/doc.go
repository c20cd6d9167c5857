// Package server exposes the boat data service and the event bus over HTTP.
//
// # API Endpoints
//
//   - /boat-types, /boats/*: boat, boat type and review queries
//   - /publish/{channel}: decode a JSON payload and publish it on the bus
//   - /page: view state of the page hosted by the server
//   - /event: bus traffic as Server-Sent Events
//   - /ws: bus traffic over a WebSocket, which also accepts publishes
//   - /health: liveness and bus counters
//
// # Event Streaming
//
// Streaming endpoints never subscribe callbacks on the bus. They read from an
// event.Mirror, which republishes every bus message on a watermill gochannel
// topic named after its channel, so a slow client only ever blocks its own
// stream. Both endpoints take a channels query parameter holding comma
// separated globs (boat.*, boat.search.**) and stream every channel when it
// is absent.
//
// # Hosted Page
//
// The server mounts one widget.Page on the shared bus. Anything published
// through /publish or /ws reaches it exactly like a selection made by a tile,
// which makes /page a convenient way to watch the widgets react.
//
// # Usage Example
//
//	bus := event.NewBus()
//	defer bus.Close()
//
//	srv, err := server.New(server.DefaultConfig(), bus, store)
//	if err != nil {
//		return err
//	}
//	defer srv.Close()
//
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//		return err
//	}
package server
