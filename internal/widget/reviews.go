package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// BoatReviews lists the reviews of one boat.
type BoatReviews struct {
	env Env
	id  string

	mu      sync.Mutex
	boatID  string
	reviews []types.BoatReview
	loading bool
	err     error
}

// NewBoatReviews creates a review list.
func NewBoatReviews(env Env) *BoatReviews {
	return &BoatReviews{env: env, id: newID("boatReviews")}
}

// WidgetID implements lifecycle.Widget.
func (r *BoatReviews) WidgetID() string { return r.id }

// Mount refreshes the list whenever a review is created for the shown boat.
func (r *BoatReviews) Mount() error {
	_, err := r.env.Lifecycle.OnMount(r, event.ReviewCreatedChannel, event.Broad(), typed(func(m event.ReviewCreated) {
		if m.BoatID != r.RecordID() {
			return
		}
		ctx, cancel := r.env.background()
		defer cancel()
		r.Refresh(ctx)
	}))
	return err
}

// Unmount releases the subscription.
func (r *BoatReviews) Unmount() {
	r.env.Lifecycle.OnUnmount(r)
}

// RecordID returns the boat whose reviews are shown.
func (r *BoatReviews) RecordID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boatID
}

// clear drops the boat and its reviews.
func (r *BoatReviews) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boatID = ""
	r.reviews = nil
	r.err = nil
}

// SetRecordID switches to another boat and loads its reviews.
func (r *BoatReviews) SetRecordID(ctx context.Context, boatID string) error {
	r.mu.Lock()
	r.boatID = boatID
	r.mu.Unlock()
	return r.Refresh(ctx)
}

// Refresh reloads the reviews. It does nothing when no boat is set.
func (r *BoatReviews) Refresh(ctx context.Context) error {
	r.mu.Lock()
	boatID := r.boatID
	if boatID == "" {
		r.mu.Unlock()
		return nil
	}
	r.loading = true
	r.mu.Unlock()

	reviews, err := r.env.Data.GetAllReviews(ctx, boatID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if boatID != r.boatID {
		// A newer boat was selected meanwhile
		return nil
	}
	r.err = err
	if err != nil {
		r.reviews = nil
		return err
	}
	r.reviews = reviews
	return nil
}

// Reviews returns the loaded reviews, newest first.
func (r *BoatReviews) Reviews() []types.BoatReview {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.BoatReview(nil), r.reviews...)
}

// ReviewsToShow reports whether there is at least one review.
func (r *BoatReviews) ReviewsToShow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reviews) > 0
}

// IsLoading reports whether reviews are being fetched.
func (r *BoatReviews) IsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the last load error.
func (r *BoatReviews) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// NavigateToRecord opens the profile of a review author.
func (r *BoatReviews) NavigateToRecord(userID string) error {
	return r.env.Nav.Navigate(navigation.RecordView(userID, navigation.UserObject))
}
