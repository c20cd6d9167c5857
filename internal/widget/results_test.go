package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
)

func TestBoatSearchResults_SearchPublishesToItsPage(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)

	mine := record[event.SearchResults](t, f.bus, event.Narrow(f.env.Context))
	other := record[event.SearchResults](t, f.bus, event.Narrow("page-other"))
	global := record[event.SearchResults](t, f.bus, event.Broad())

	require.NoError(t, results.Search(context.Background(), ""))

	assert.Equal(t, []string{"b1", "b3", "b2"}, ids(results.Boats()))
	require.Len(t, *mine, 1)
	assert.Equal(t, "", (*mine)[0].BoatTypeID)
	assert.Equal(t, []string{"b1", "b3", "b2"}, ids((*mine)[0].Boats))
	assert.Empty(t, *other)
	assert.Len(t, *global, 1)
	assert.False(t, results.IsLoading())
}

func TestBoatSearchResults_SearchError(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.withData(failingService{}))
	published := record[event.SearchResults](t, f.bus, event.Broad())

	err := results.Search(context.Background(), "sail")
	require.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, results.Err(), errBackend)
	assert.Empty(t, results.Boats())
	assert.Empty(t, *published)
	assert.False(t, results.IsLoading())
}

func TestBoatSearchResults_FollowsSelection(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	require.NoError(t, results.Mount())

	boat, err := f.store.GetBoat(context.Background(), "b2")
	require.NoError(t, err)
	f.bus.Publish(event.BoatMessage{RecordID: "b2", Boat: boat})

	assert.Equal(t, "b2", results.SelectedBoatID())
	require.NotNil(t, results.SelectedBoat())
	assert.Equal(t, "Wind Dancer", results.SelectedBoat().Name)

	results.Unmount()
	f.bus.Publish(event.BoatMessage{RecordID: "b3"})
	assert.Equal(t, "b2", results.SelectedBoatID())
}

func TestBoatSearchResults_Tiles(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	require.NoError(t, results.Search(context.Background(), "sail"))

	tiles := results.Tiles()
	require.Len(t, tiles, 2)
	for _, tile := range tiles {
		assert.Equal(t, tileWrapperUnselectedClass, tile.TileClass())
	}

	tiles[1].SelectBoat()
	assert.Equal(t, "b2", results.SelectedBoatID())

	tiles = results.Tiles()
	assert.Equal(t, tileWrapperUnselectedClass, tiles[0].TileClass())
	assert.Equal(t, tileWrapperSelectedClass, tiles[1].TileClass())
}

func TestBoatSearchResults_UpdateSelectedTile(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	messages := record[event.BoatMessage](t, f.bus, event.Broad())

	results.UpdateSelectedTile("b3")

	assert.Equal(t, "b3", results.SelectedBoatID())
	assert.Equal(t, []event.BoatMessage{{RecordID: "b3"}}, *messages)
}

func TestBoatSearchResults_Save(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	ctx := context.Background()
	require.NoError(t, results.Search(ctx, "sail"))

	name := "Sea Breeze II"
	price := 210.0
	results.AddDraft(boatdata.BoatUpdate{ID: "b1", Name: &name, Price: &price})
	require.Len(t, results.Drafts(), 1)

	require.NoError(t, results.Save(ctx))

	assert.Empty(t, results.Drafts())
	toast := f.lastToast(t)
	assert.Equal(t, notify.Toast{Title: successTitle, Message: messageShipIt, Variant: notify.Success}, toast)

	boats := results.Boats()
	require.NotEmpty(t, boats)
	assert.Equal(t, "Sea Breeze II", boats[0].Name)
	assert.Equal(t, 210.0, boats[0].Price)
}

func TestBoatSearchResults_SaveError(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	ctx := context.Background()

	name := "Ghost"
	results.AddDraft(boatdata.BoatUpdate{ID: "missing", Name: &name})

	err := results.Save(ctx)
	require.ErrorIs(t, err, boatdata.ErrBoatNotFound)
	assert.Empty(t, results.Drafts())

	toast := f.lastToast(t)
	assert.Equal(t, errorTitle, toast.Title)
	assert.Equal(t, notify.Error, toast.Variant)
	assert.Contains(t, toast.Message, "boat not found")
	assert.False(t, results.IsLoading())
}
