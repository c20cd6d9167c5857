package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// listBoatTypes handles GET /boat-types
func (s *Server) listBoatTypes(w http.ResponseWriter, r *http.Request) {
	boatTypes, err := s.data.GetBoatTypes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boatTypes)
}

// listBoats handles GET /boats
func (s *Server) listBoats(w http.ResponseWriter, r *http.Request) {
	boats, err := s.data.GetBoats(r.Context(), r.URL.Query().Get("boatTypeId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boats)
}

// updateBoats handles PATCH /boats
func (s *Server) updateBoats(w http.ResponseWriter, r *http.Request) {
	var updates []boatdata.BoatUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}

	boats, err := s.data.UpdateBoatList(r.Context(), updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.bus.Publish(event.BoatListRefreshed{Count: len(boats)})
	writeJSON(w, http.StatusOK, boats)
}

// nearbyBoats handles GET /boats/near
func (s *Server) nearbyBoats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var loc types.GeoPoint
	switch {
	case q.Get("lat") != "" || q.Get("lon") != "":
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "lat must be a number")
			return
		}
		lon, err := strconv.ParseFloat(q.Get("lon"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "lon must be a number")
			return
		}
		loc = types.GeoPoint{Latitude: lat, Longitude: lon}
	case s.config.Location != nil:
		loc = *s.config.Location
	default:
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "lat and lon required")
		return
	}

	boats, err := s.data.GetBoatsByLocation(r.Context(), loc, q.Get("boatTypeId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boats)
}

// getBoat handles GET /boats/{boatID}. The reference may be an ID or a name.
func (s *Server) getBoat(w http.ResponseWriter, r *http.Request) {
	boat, err := boatdata.Resolve(r.Context(), s.data, chi.URLParam(r, "boatID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boat)
}

// listReviews handles GET /boats/{boatID}/reviews
func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	boatID := chi.URLParam(r, "boatID")
	if _, err := s.data.GetBoat(r.Context(), boatID); err != nil {
		writeServiceError(w, err)
		return
	}

	reviews, err := s.data.GetAllReviews(r.Context(), boatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// CreateReviewRequest is the body of POST /boats/{boatID}/reviews.
type CreateReviewRequest struct {
	Subject   string             `json:"subject"`
	Comment   string             `json:"comment,omitempty"`
	Rating    int                `json:"rating"`
	CreatedBy types.ReviewAuthor `json:"createdBy,omitempty"`
}

// createReview handles POST /boats/{boatID}/reviews
func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}

	review, err := s.data.CreateReview(r.Context(), types.BoatReview{
		BoatID:    chi.URLParam(r, "boatID"),
		Subject:   req.Subject,
		Comment:   req.Comment,
		Rating:    req.Rating,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.bus.Publish(event.ReviewCreated{BoatID: review.BoatID, ReviewID: review.ID})
	writeJSON(w, http.StatusCreated, review)
}

// similarBoats handles GET /boats/{boatID}/similar
func (s *Server) similarBoats(w http.ResponseWriter, r *http.Request) {
	by := boatdata.SimilarByType
	if raw := r.URL.Query().Get("by"); raw != "" {
		parsed, err := boatdata.ParseSimilarBy(raw)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		by = parsed
	}

	boats, err := s.data.GetSimilarBoats(r.Context(), chi.URLParam(r, "boatID"), by)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boats)
}
