package widget

import (
	"context"
	"sync"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const reviewCreatedTitle = "Review Created!"

// BoatAddReviewForm submits a review for one boat.
type BoatAddReviewForm struct {
	env Env

	Rating *FiveStarRating

	mu     sync.Mutex
	boatID string
	rating int

	// OnCreateReview is called with each created review.
	OnCreateReview func(review types.BoatReview)
}

// NewBoatAddReviewForm creates a review form with an editable rating.
func NewBoatAddReviewForm(env Env) *BoatAddReviewForm {
	f := &BoatAddReviewForm{env: env}
	f.Rating = &FiveStarRating{OnRatingChange: f.HandleRatingChanged}
	return f
}

// SetBoatID selects the boat being reviewed.
func (f *BoatAddReviewForm) SetBoatID(boatID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boatID = boatID
}

// BoatID returns the boat being reviewed.
func (f *BoatAddReviewForm) BoatID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.boatID
}

// HandleRatingChanged records the star rating.
func (f *BoatAddReviewForm) HandleRatingChanged(rating int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rating = rating
}

// CurrentRating returns the pending rating.
func (f *BoatAddReviewForm) CurrentRating() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rating
}

// Submit creates the review, announces it and resets the form. Failures are
// shown as an error toast and leave the form as it was.
func (f *BoatAddReviewForm) Submit(ctx context.Context, subject, comment string) (*types.BoatReview, error) {
	f.mu.Lock()
	review := types.BoatReview{
		BoatID:    f.boatID,
		Subject:   subject,
		Comment:   comment,
		Rating:    f.rating,
		CreatedBy: f.env.User,
	}
	f.mu.Unlock()

	created, err := f.env.Data.CreateReview(ctx, review)
	if err != nil {
		f.env.toastError(errorTitle, err)
		return nil, err
	}

	f.env.Toast.Show(notify.Toast{Title: reviewCreatedTitle, Variant: notify.Success})
	f.reset()
	if f.OnCreateReview != nil {
		f.OnCreateReview(*created)
	}
	f.env.publish(event.ReviewCreated{BoatID: created.BoatID, ReviewID: created.ID})
	return created, nil
}

func (f *BoatAddReviewForm) reset() {
	f.mu.Lock()
	f.rating = 0
	f.mu.Unlock()
	f.Rating.Value = 0
}
