package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
)

func TestBoatSearchForm_Load(t *testing.T) {
	f := newFixture(t)
	form := NewBoatSearchForm(f.env)

	require.NoError(t, form.Load(context.Background()))
	assert.Equal(t, []SearchOption{
		{Label: AllTypesLabel, Value: ""},
		{Label: "Motorboat", Value: "motor"},
		{Label: "Sailboat", Value: "sail"},
	}, form.Options())
	assert.Empty(t, f.toasts.Toasts())
}

func TestBoatSearchForm_LoadError(t *testing.T) {
	f := newFixture(t)
	form := NewBoatSearchForm(f.withData(failingService{}))

	err := form.Load(context.Background())
	require.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, form.Err(), errBackend)
	assert.Equal(t, []SearchOption{{Label: AllTypesLabel, Value: ""}}, form.Options())

	toast := f.lastToast(t)
	assert.Equal(t, errLoadingBoatTypes, toast.Title)
	assert.Equal(t, notify.Error, toast.Variant)
	assert.Equal(t, errBackend.Error(), toast.Message)
}

func TestBoatSearchForm_Select(t *testing.T) {
	f := newFixture(t)
	form := NewBoatSearchForm(f.env)

	var searched []string
	form.OnSearch = func(id string) { searched = append(searched, id) }

	form.Select("sail")
	form.Select("")
	assert.Equal(t, []string{"sail", ""}, searched)
	assert.Equal(t, "", form.SelectedBoatTypeID())
}

func TestBoatSearch_FollowsLoadingOfItsPage(t *testing.T) {
	f := newFixture(t)
	search := NewBoatSearch(f.env, NewBoatSearchResults(f.env))
	require.NoError(t, search.Mount())
	defer search.Unmount()

	f.bus.PublishFrom(event.Narrow("page-other"), event.LoadingChanged{Loading: true})
	assert.False(t, search.IsLoading(), "another page's loading state leaked in")

	f.bus.Publish(event.LoadingChanged{Loading: true})
	assert.False(t, search.IsLoading(), "a page-scoped subscriber accepted a broad publish")

	f.bus.PublishFrom(event.Narrow(f.env.Context), event.LoadingChanged{Loading: true})
	assert.True(t, search.IsLoading())

	f.bus.PublishFrom(event.Narrow(f.env.Context), event.LoadingChanged{Loading: false})
	assert.False(t, search.IsLoading())
}

func TestBoatSearch_FormDrivesResults(t *testing.T) {
	f := newFixture(t)
	results := NewBoatSearchResults(f.env)
	search := NewBoatSearch(f.env, results)
	require.NoError(t, search.Mount())
	defer search.Unmount()

	loading := record[event.LoadingChanged](t, f.bus, event.Narrow(f.env.Context))

	search.Form.Select("sail")

	assert.Equal(t, "sail", results.BoatTypeID())
	assert.Equal(t, []string{"b1", "b2"}, ids(results.Boats()))
	assert.Equal(t, []event.LoadingChanged{{Loading: true}, {Loading: false}}, *loading)
	assert.False(t, search.IsLoading())
}

func TestBoatSearch_CreateNewBoat(t *testing.T) {
	f := newFixture(t)
	search := NewBoatSearch(f.env, NewBoatSearchResults(f.env))

	require.NoError(t, search.CreateNewBoat())
	assert.Equal(t, navigation.NewRecord(navigation.BoatObject), f.lastNav(t))
}
