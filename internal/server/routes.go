package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/health", s.health)

	r.Get("/boat-types", s.listBoatTypes)

	// Boats
	r.Route("/boats", func(r chi.Router) {
		r.Get("/", s.listBoats)
		r.Patch("/", s.updateBoats)
		r.Get("/near", s.nearbyBoats)

		r.Route("/{boatID}", func(r chi.Router) {
			r.Get("/", s.getBoat)
			r.Get("/reviews", s.listReviews)
			r.Post("/reviews", s.createReview)
			r.Get("/similar", s.similarBoats)
		})
	})

	// Bus
	r.Post("/publish/{channel}", s.publish)
	r.Get("/channels", s.listChannels)

	// Hosted page
	r.Get("/page", s.getPage)

	// Event streaming
	r.Get("/event", s.streamEvents)
	r.Get("/ws", s.handleWebSocket)
}
