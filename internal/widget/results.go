package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const (
	successTitle  = "Success"
	errorTitle    = "Error"
	messageShipIt = "Ship it!"
)

// BoatSearchResults lists the boats of the searched type, tracks the selected
// boat and saves inline edits.
type BoatSearchResults struct {
	env Env
	id  string

	mu             sync.Mutex
	boatTypeID     string
	boats          []types.Boat
	selectedBoatID string
	selectedBoat   *types.Boat
	drafts         []boatdata.BoatUpdate
	loading        bool
	err            error
}

// NewBoatSearchResults creates a results widget.
func NewBoatSearchResults(env Env) *BoatSearchResults {
	return &BoatSearchResults{env: env, id: newID("boatSearchResults")}
}

// WidgetID implements lifecycle.Widget.
func (r *BoatSearchResults) WidgetID() string { return r.id }

// Mount follows the boat selected anywhere in the application.
func (r *BoatSearchResults) Mount() error {
	_, err := r.env.Lifecycle.OnMount(r, event.BoatMessageChannel, event.Broad(), typed(r.handleMessage))
	return err
}

// Unmount releases the subscription.
func (r *BoatSearchResults) Unmount() {
	r.env.Lifecycle.OnUnmount(r)
}

func (r *BoatSearchResults) handleMessage(m event.BoatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectedBoatID = m.RecordID
	r.selectedBoat = m.Boat
}

// Search loads the boats of a type (all types when empty) and shares them
// with the rest of the page.
func (r *BoatSearchResults) Search(ctx context.Context, boatTypeID string) error {
	r.notifyLoading(true)
	boats, err := r.env.Data.GetBoats(ctx, boatTypeID)

	r.mu.Lock()
	r.boatTypeID = boatTypeID
	r.err = err
	if err != nil {
		r.boats = nil
	} else {
		r.boats = boats
	}
	r.mu.Unlock()

	r.notifyLoading(false)
	if err != nil {
		return err
	}
	r.env.publishLocal(event.SearchResults{BoatTypeID: boatTypeID, Boats: boats})
	return nil
}

// Refresh repeats the last search.
func (r *BoatSearchResults) Refresh(ctx context.Context) error {
	return r.Search(ctx, r.BoatTypeID())
}

// UpdateSelectedTile selects a boat and announces it.
func (r *BoatSearchResults) UpdateSelectedTile(boatID string) {
	r.mu.Lock()
	r.selectedBoatID = boatID
	r.mu.Unlock()

	r.env.publish(event.BoatMessage{RecordID: boatID})
}

// Tiles returns one tile per boat, wired back to this widget.
func (r *BoatSearchResults) Tiles() []*BoatTile {
	r.mu.Lock()
	defer r.mu.Unlock()

	tiles := make([]*BoatTile, len(r.boats))
	for i, b := range r.boats {
		t := NewBoatTile(r.env, b, r.selectedBoatID)
		t.OnBoatSelect = r.handleBoatSelect
		tiles[i] = t
	}
	return tiles
}

func (r *BoatSearchResults) handleBoatSelect(boatID string) {
	r.mu.Lock()
	r.selectedBoatID = boatID
	r.mu.Unlock()
}

// AddDraft queues an inline edit.
func (r *BoatSearchResults) AddDraft(u boatdata.BoatUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, u)
}

// Drafts returns the queued edits.
func (r *BoatSearchResults) Drafts() []boatdata.BoatUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]boatdata.BoatUpdate(nil), r.drafts...)
}

// Save writes the queued edits, reports the outcome as a toast and clears
// the drafts either way. On success the results are reloaded.
func (r *BoatSearchResults) Save(ctx context.Context) error {
	r.mu.Lock()
	drafts := r.drafts
	r.drafts = nil
	r.mu.Unlock()

	r.notifyLoading(true)
	_, err := r.env.Data.UpdateBoatList(ctx, drafts)
	r.notifyLoading(false)

	if err != nil {
		r.env.toastError(errorTitle, err)
		return err
	}
	r.env.Toast.Show(notify.Toast{Title: successTitle, Message: messageShipIt, Variant: notify.Success})
	return r.Refresh(ctx)
}

func (r *BoatSearchResults) notifyLoading(loading bool) {
	r.mu.Lock()
	r.loading = loading
	r.mu.Unlock()
	r.env.publishLocal(event.LoadingChanged{Loading: loading})
}

// Boats returns the current results.
func (r *BoatSearchResults) Boats() []types.Boat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Boat(nil), r.boats...)
}

// BoatTypeID returns the type of the last search.
func (r *BoatSearchResults) BoatTypeID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boatTypeID
}

// SelectedBoatID returns the selected boat.
func (r *BoatSearchResults) SelectedBoatID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedBoatID
}

// SelectedBoat returns the snapshot of the selected boat, if the selection
// carried one.
func (r *BoatSearchResults) SelectedBoat() *types.Boat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedBoat
}

// IsLoading reports whether a load or save is running.
func (r *BoatSearchResults) IsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the last search error.
func (r *BoatSearchResults) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
