package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/lifecycle"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const (
	labelYouAreHere  = "You are here!"
	iconStandardUser = "standard:user"
	errLoadingNearMe = "Error loading Boats Near Me"
)

// BoatsNearMe maps the boats closest to the user.
type BoatsNearMe struct {
	env Env
	id  string

	mu             sync.Mutex
	boatTypeID     string
	location       *types.GeoPoint
	boats          []types.Boat
	markers        []MapMarker
	selectedBoatID string
	loading        bool
	err            error
}

// NewBoatsNearMe creates the widget for boats of boatTypeID, all types when empty.
func NewBoatsNearMe(env Env, boatTypeID string) *BoatsNearMe {
	return &BoatsNearMe{env: env, id: newID("boatsNearMe"), boatTypeID: boatTypeID, loading: true}
}

// WidgetID implements lifecycle.Widget.
func (n *BoatsNearMe) WidgetID() string { return n.id }

// Mount tracks the selected boat and follows searches made on this page.
func (n *BoatsNearMe) Mount() error {
	_, err := n.env.Lifecycle.Mount(n,
		lifecycle.Binding{Channel: event.BoatMessageChannel, Audience: event.Broad(), Callback: typed(func(m event.BoatMessage) {
			n.mu.Lock()
			n.selectedBoatID = m.RecordID
			n.mu.Unlock()
		})},
		lifecycle.Binding{Channel: event.SearchResultsChannel, Audience: n.env.local(), Callback: typed(func(m event.SearchResults) {
			n.mu.Lock()
			changed := n.boatTypeID != m.BoatTypeID
			n.boatTypeID = m.BoatTypeID
			hasLocation := n.location != nil
			n.mu.Unlock()
			if changed && hasLocation {
				ctx, cancel := n.env.background()
				defer cancel()
				n.Reload(ctx)
			}
		})},
	)
	return err
}

// Unmount releases the subscriptions.
func (n *BoatsNearMe) Unmount() {
	n.env.Lifecycle.OnUnmount(n)
}

// SetLocation records the user's position and loads the nearby boats.
func (n *BoatsNearMe) SetLocation(ctx context.Context, latitude, longitude float64) error {
	n.mu.Lock()
	n.location = &types.GeoPoint{Latitude: latitude, Longitude: longitude}
	n.mu.Unlock()
	return n.Reload(ctx)
}

// Reload fetches the boats near the recorded location.
func (n *BoatsNearMe) Reload(ctx context.Context) error {
	n.mu.Lock()
	if n.location == nil {
		n.mu.Unlock()
		return nil
	}
	loc, boatTypeID := *n.location, n.boatTypeID
	n.loading = true
	n.mu.Unlock()

	boats, err := n.env.Data.GetBoatsByLocation(ctx, loc, boatTypeID)
	if err != nil {
		n.mu.Lock()
		n.err = err
		n.loading = false
		n.mu.Unlock()
		n.env.toastError(errLoadingNearMe, err)
		return err
	}

	markers := make([]MapMarker, 0, len(boats)+1)
	markers = append(markers, MapMarker{Location: loc, Title: labelYouAreHere, Icon: iconStandardUser})
	for _, b := range boats {
		markers = append(markers, boatMarker(b))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = nil
	n.boats = boats
	n.markers = markers
	n.loading = false
	return nil
}

// BoatTypeID returns the type filter.
func (n *BoatsNearMe) BoatTypeID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.boatTypeID
}

// Boats returns the nearby boats, nearest first.
func (n *BoatsNearMe) Boats() []types.Boat {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]types.Boat(nil), n.boats...)
}

// Markers returns the user's marker followed by one per boat.
func (n *BoatsNearMe) Markers() []MapMarker {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]MapMarker(nil), n.markers...)
}

// SelectedBoatID returns the last boat selected anywhere.
func (n *BoatsNearMe) SelectedBoatID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selectedBoatID
}

// IsLoading reports whether the location or boats are still pending.
func (n *BoatsNearMe) IsLoading() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loading
}

// Err returns the last load error.
func (n *BoatsNearMe) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}
