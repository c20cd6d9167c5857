package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// SimilarBoats lists boats resembling one boat.
type SimilarBoats struct {
	env Env

	mu        sync.Mutex
	boatID    string
	similarBy boatdata.SimilarBy
	boats     []types.Boat
	err       error
}

// NewSimilarBoats creates a list comparing boats by similarBy.
func NewSimilarBoats(env Env, similarBy boatdata.SimilarBy) *SimilarBoats {
	return &SimilarBoats{env: env, similarBy: similarBy}
}

// clear drops the reference boat and its matches.
func (s *SimilarBoats) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boatID = ""
	s.boats = nil
	s.err = nil
}

// SetBoatID selects the reference boat and loads its matches.
func (s *SimilarBoats) SetBoatID(ctx context.Context, boatID string) error {
	s.mu.Lock()
	s.boatID = boatID
	s.mu.Unlock()
	return s.Load(ctx)
}

// Load fetches the similar boats. It does nothing when no boat is set.
func (s *SimilarBoats) Load(ctx context.Context) error {
	s.mu.Lock()
	boatID, by := s.boatID, s.similarBy
	s.mu.Unlock()
	if boatID == "" {
		return nil
	}

	boats, err := s.env.Data.GetSimilarBoats(ctx, boatID, by)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err != nil {
		s.boats = nil
		return err
	}
	s.boats = boats
	return nil
}

// SimilarBy returns the comparison criterion.
func (s *SimilarBoats) SimilarBy() boatdata.SimilarBy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.similarBy
}

// Title returns the card title.
func (s *SimilarBoats) Title() string {
	return "Similar boats by " + string(s.SimilarBy())
}

// Boats returns the matches.
func (s *SimilarBoats) Boats() []types.Boat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Boat(nil), s.boats...)
}

// NoBoats reports whether there is nothing to show.
func (s *SimilarBoats) NoBoats() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.boats) == 0
}

// Err returns the last load error.
func (s *SimilarBoats) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// OpenBoatDetailPage opens the record page of a similar boat.
func (s *SimilarBoats) OpenBoatDetailPage(boatID string) error {
	return s.env.Nav.Navigate(navigation.RecordView(boatID, navigation.BoatObject))
}
