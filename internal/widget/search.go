package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
)

// BoatSearch hosts the search form and the results, and tracks whether a
// search on its page is in flight.
type BoatSearch struct {
	env Env
	id  string

	Form    *BoatSearchForm
	Results *BoatSearchResults

	mu      sync.Mutex
	loading bool
}

// NewBoatSearch creates a search container driving results.
func NewBoatSearch(env Env, results *BoatSearchResults) *BoatSearch {
	s := &BoatSearch{
		env:     env,
		id:      newID("boatSearch"),
		Form:    NewBoatSearchForm(env),
		Results: results,
	}
	s.Form.OnSearch = func(boatTypeID string) {
		ctx, cancel := env.background()
		defer cancel()
		s.SearchBoats(ctx, boatTypeID)
	}
	return s
}

// WidgetID implements lifecycle.Widget.
func (s *BoatSearch) WidgetID() string { return s.id }

// Mount follows the loading state published on this page.
func (s *BoatSearch) Mount() error {
	_, err := s.env.Lifecycle.OnMount(s, event.LoadingChannel, s.env.local(), typed(func(m event.LoadingChanged) {
		if m.Loading {
			s.HandleLoading()
		} else {
			s.HandleDoneLoading()
		}
	}))
	return err
}

// Unmount releases the subscription.
func (s *BoatSearch) Unmount() {
	s.env.Lifecycle.OnUnmount(s)
}

// IsLoading reports whether a search is running.
func (s *BoatSearch) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// HandleLoading marks a search as started.
func (s *BoatSearch) HandleLoading() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

// HandleDoneLoading marks the search as finished.
func (s *BoatSearch) HandleDoneLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// SearchBoats runs a search for a boat type through the results widget.
func (s *BoatSearch) SearchBoats(ctx context.Context, boatTypeID string) error {
	s.HandleLoading()
	defer s.HandleDoneLoading()
	return s.Results.Search(ctx, boatTypeID)
}

// CreateNewBoat opens the new boat page.
func (s *BoatSearch) CreateNewBoat() error {
	return s.env.Nav.Navigate(navigation.NewRecord(navigation.BoatObject))
}
