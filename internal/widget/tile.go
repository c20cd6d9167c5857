package widget

import (
	"fmt"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const (
	tileWrapperSelectedClass   = "tile-wrapper selected"
	tileWrapperUnselectedClass = "tile-wrapper"
)

// BoatTile shows one boat in the results gallery.
type BoatTile struct {
	env Env

	Boat           types.Boat
	SelectedBoatID string
	// OnBoatSelect is called with the boat ID after the tile is selected.
	OnBoatSelect func(boatID string)
}

// NewBoatTile creates a tile for boat.
func NewBoatTile(env Env, boat types.Boat, selectedBoatID string) *BoatTile {
	return &BoatTile{env: env, Boat: boat, SelectedBoatID: selectedBoatID}
}

// TileClass highlights the selected tile.
func (t *BoatTile) TileClass() string {
	if t.Boat.ID != "" && t.Boat.ID == t.SelectedBoatID {
		return tileWrapperSelectedClass
	}
	return tileWrapperUnselectedClass
}

// BackgroundStyle returns the inline style showing the boat picture.
func (t *BoatTile) BackgroundStyle() string {
	if t.Boat.Picture == "" {
		return "none"
	}
	return fmt.Sprintf("background-image:url(%s)", t.Boat.Picture)
}

// OwnerName returns the boat's contact, or empty.
func (t *BoatTile) OwnerName() string {
	return t.Boat.ContactName
}

// SelectBoat announces this boat as the selection on both boat channels.
func (t *BoatTile) SelectBoat() {
	boat := t.Boat
	t.SelectedBoatID = boat.ID

	if t.OnBoatSelect != nil {
		t.OnBoatSelect(boat.ID)
	}
	t.env.publish(event.BoatMessage{RecordID: boat.ID, Boat: &boat})
	t.env.publish(event.BoatSelect{RecordID: boat.ID})
}
