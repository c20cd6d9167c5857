package widget

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// MapMarker is a pin on a map.
type MapMarker struct {
	Location    types.GeoPoint `json:"location"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
}

func boatMarker(b types.Boat) MapMarker {
	return MapMarker{
		Location:    b.Location,
		Title:       b.Name,
		Description: fmt.Sprintf("Coords: %s, %s", formatCoord(b.Location.Latitude), formatCoord(b.Location.Longitude)),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BoatMap shows the location of one boat. Without a fixed boat it follows
// the application-wide selection.
type BoatMap struct {
	env   Env
	id    string
	fixed bool

	mu      sync.Mutex
	boatID  string
	markers []MapMarker
	err     error
}

// NewBoatMap creates a map. A non-empty boatID pins the map to that boat.
func NewBoatMap(env Env, boatID string) *BoatMap {
	return &BoatMap{env: env, id: newID("boatMap"), fixed: boatID != "", boatID: boatID}
}

// WidgetID implements lifecycle.Widget.
func (m *BoatMap) WidgetID() string { return m.id }

// Mount loads the fixed boat, or subscribes to the selection.
func (m *BoatMap) Mount() error {
	if m.fixed {
		ctx, cancel := m.env.background()
		defer cancel()
		m.SetBoatID(ctx, m.BoatID())
		return nil
	}
	_, err := m.env.Lifecycle.OnMount(m, event.BoatMessageChannel, event.Broad(), typed(func(msg event.BoatMessage) {
		ctx, cancel := m.env.background()
		defer cancel()
		m.SetBoatID(ctx, msg.RecordID)
	}))
	return err
}

// Unmount releases the subscription.
func (m *BoatMap) Unmount() {
	m.env.Lifecycle.OnUnmount(m)
}

// SetBoatID loads a boat and places its marker. On error the map is cleared.
func (m *BoatMap) SetBoatID(ctx context.Context, boatID string) error {
	boat, err := m.env.Data.GetBoat(ctx, boatID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	if err != nil {
		m.boatID = ""
		m.markers = nil
		return err
	}
	m.boatID = boatID
	m.markers = []MapMarker{boatMarker(*boat)}
	return nil
}

// BoatID returns the boat on the map.
func (m *BoatMap) BoatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boatID
}

// Markers returns the map pins.
func (m *BoatMap) Markers() []MapMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MapMarker(nil), m.markers...)
}

// ShowMap reports whether there is anything to show.
func (m *BoatMap) ShowMap() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markers) > 0
}

// Err returns the last load error.
func (m *BoatMap) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
