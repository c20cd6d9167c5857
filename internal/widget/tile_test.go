package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

func TestBoatTile_Presentation(t *testing.T) {
	f := newFixture(t)

	tile := NewBoatTile(f.env, types.Boat{ID: "b1", Picture: "https://img.example/b1.png", ContactName: "Ada"}, "")
	assert.Equal(t, tileWrapperUnselectedClass, tile.TileClass())
	assert.Equal(t, "background-image:url(https://img.example/b1.png)", tile.BackgroundStyle())
	assert.Equal(t, "Ada", tile.OwnerName())

	tile.SelectedBoatID = "b1"
	assert.Equal(t, tileWrapperSelectedClass, tile.TileClass())

	bare := NewBoatTile(f.env, types.Boat{}, "")
	assert.Equal(t, "none", bare.BackgroundStyle())
	assert.Equal(t, "", bare.OwnerName())
	assert.Equal(t, tileWrapperUnselectedClass, bare.TileClass())
}

func TestBoatTile_SelectBoat(t *testing.T) {
	f := newFixture(t)
	messages := record[event.BoatMessage](t, f.bus, event.Broad())
	selects := record[event.BoatSelect](t, f.bus, event.Broad())

	boat := types.Boat{ID: "b2", Name: "Wind Dancer"}
	tile := NewBoatTile(f.env, boat, "")
	var picked string
	tile.OnBoatSelect = func(id string) { picked = id }

	tile.SelectBoat()

	assert.Equal(t, "b2", picked)
	assert.Equal(t, "b2", tile.SelectedBoatID)
	require.Len(t, *messages, 1)
	assert.Equal(t, "b2", (*messages)[0].RecordID)
	require.NotNil(t, (*messages)[0].Boat)
	assert.Equal(t, boat, *(*messages)[0].Boat)
	assert.Equal(t, []event.BoatSelect{{RecordID: "b2"}}, *selects)
}
