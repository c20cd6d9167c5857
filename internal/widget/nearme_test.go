package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

func TestBoatsNearMe_SetLocation(t *testing.T) {
	f := newFixture(t)
	n := NewBoatsNearMe(f.env, "")
	assert.True(t, n.IsLoading())

	require.NoError(t, n.SetLocation(context.Background(), 37.8, -122.42))

	assert.False(t, n.IsLoading())
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids(n.Boats()))

	markers := n.Markers()
	require.Len(t, markers, 4)
	assert.Equal(t, MapMarker{
		Location: types.GeoPoint{Latitude: 37.8, Longitude: -122.42},
		Title:    labelYouAreHere,
		Icon:     iconStandardUser,
	}, markers[0])
	assert.Equal(t, "Sea Breeze", markers[1].Title)
}

func TestBoatsNearMe_ReloadWithoutLocation(t *testing.T) {
	f := newFixture(t)
	n := NewBoatsNearMe(f.env, "sail")

	require.NoError(t, n.Reload(context.Background()))
	assert.Empty(t, n.Markers())
	assert.True(t, n.IsLoading())
}

func TestBoatsNearMe_Error(t *testing.T) {
	f := newFixture(t)
	n := NewBoatsNearMe(f.withData(failingService{}), "")

	err := n.SetLocation(context.Background(), 1, 2)
	require.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, n.Err(), errBackend)
	assert.False(t, n.IsLoading())

	toast := f.lastToast(t)
	assert.Equal(t, errLoadingNearMe, toast.Title)
	assert.Equal(t, notify.Error, toast.Variant)
}

func TestBoatsNearMe_FollowsPageSearches(t *testing.T) {
	f := newFixture(t)
	n := NewBoatsNearMe(f.env, "")
	require.NoError(t, n.Mount())
	defer n.Unmount()
	require.NoError(t, n.SetLocation(context.Background(), 37.8, -122.42))

	f.bus.PublishFrom(event.Narrow("page-other"), event.SearchResults{BoatTypeID: "motor"})
	assert.Equal(t, "", n.BoatTypeID())

	f.bus.PublishFrom(event.Narrow(f.env.Context), event.SearchResults{BoatTypeID: "motor"})
	assert.Equal(t, "motor", n.BoatTypeID())
	assert.Equal(t, []string{"b3"}, ids(n.Boats()))

	f.bus.Publish(event.BoatMessage{RecordID: "b2"})
	assert.Equal(t, "b2", n.SelectedBoatID())
}
