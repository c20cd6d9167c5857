package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Tab names.
const (
	TabDetails   = "details"
	TabReviews   = "reviews"
	TabAddReview = "addReview"
)

const detailsIconName = "utility:anchor"

// BoatDetailTabs shows the selected boat's details, reviews, a review form
// and boats similar to it.
type BoatDetailTabs struct {
	env Env
	id  string

	Reviews   *BoatReviews
	AddReview *BoatAddReviewForm
	Similar   *SimilarBoats

	mu        sync.Mutex
	boatID    string
	boat      *types.Boat
	activeTab string
	err       error
}

// NewBoatDetailTabs creates the tab set and its children.
func NewBoatDetailTabs(env Env) *BoatDetailTabs {
	t := &BoatDetailTabs{
		env:       env,
		id:        newID("boatDetailTabs"),
		Reviews:   NewBoatReviews(env),
		AddReview: NewBoatAddReviewForm(env),
		Similar:   NewSimilarBoats(env, boatdata.SimilarByType),
		activeTab: TabDetails,
	}
	t.AddReview.OnCreateReview = func(types.BoatReview) {
		ctx, cancel := env.background()
		defer cancel()
		t.HandleReviewCreated(ctx)
	}
	return t
}

// WidgetID implements lifecycle.Widget.
func (t *BoatDetailTabs) WidgetID() string { return t.id }

// Mount follows the application-wide selection.
func (t *BoatDetailTabs) Mount() error {
	_, err := t.env.Lifecycle.OnMount(t, event.BoatMessageChannel, event.Broad(), typed(func(m event.BoatMessage) {
		ctx, cancel := t.env.background()
		defer cancel()
		t.SetBoatID(ctx, m.RecordID)
	}))
	if err != nil {
		return err
	}
	if err := t.Reviews.Mount(); err != nil {
		t.env.Lifecycle.OnUnmount(t)
		return err
	}
	return nil
}

// Unmount releases the subscriptions of the tabs and the review list.
func (t *BoatDetailTabs) Unmount() {
	t.Reviews.Unmount()
	t.env.Lifecycle.OnUnmount(t)
}

// SetBoatID loads a boat and points every tab at it.
func (t *BoatDetailTabs) SetBoatID(ctx context.Context, boatID string) error {
	boat, err := t.env.Data.GetBoat(ctx, boatID)

	t.mu.Lock()
	t.err = err
	if err != nil {
		t.boatID = ""
		t.boat = nil
		t.mu.Unlock()

		// No child may keep showing the previous boat.
		t.AddReview.SetBoatID("")
		t.Reviews.clear()
		t.Similar.clear()
		return err
	}
	t.boatID = boatID
	t.boat = boat
	t.mu.Unlock()

	t.AddReview.SetBoatID(boatID)
	if err := t.Reviews.SetRecordID(ctx, boatID); err != nil {
		return err
	}
	return t.Similar.SetBoatID(ctx, boatID)
}

// BoatID returns the selected boat.
func (t *BoatDetailTabs) BoatID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.boatID
}

// Boat returns the loaded boat, if any.
func (t *BoatDetailTabs) Boat() *types.Boat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.boat
}

// DetailsTabIconName returns the details tab icon, shown only with a boat.
func (t *BoatDetailTabs) DetailsTabIconName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.boat == nil {
		return ""
	}
	return detailsIconName
}

// BoatName returns the loaded boat's name.
func (t *BoatDetailTabs) BoatName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.boat == nil {
		return ""
	}
	return t.boat.Name
}

// ActiveTab returns the open tab.
func (t *BoatDetailTabs) ActiveTab() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeTab
}

// SetActiveTab opens a tab.
func (t *BoatDetailTabs) SetActiveTab(tab string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeTab = tab
}

// Err returns the last load error.
func (t *BoatDetailTabs) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// NavigateToRecordViewPage opens the full record page of the boat.
func (t *BoatDetailTabs) NavigateToRecordViewPage() error {
	return t.env.Nav.Navigate(navigation.RecordView(t.BoatID(), navigation.BoatObject))
}

// HandleReviewCreated switches to the reviews tab and reloads the list.
func (t *BoatDetailTabs) HandleReviewCreated(ctx context.Context) error {
	t.SetActiveTab(TabReviews)
	return t.Reviews.Refresh(ctx)
}
