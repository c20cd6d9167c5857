package widget

// MaxRating is the number of stars.
const MaxRating = 5

const (
	editableClass = "c-rating"
	readOnlyClass = "readonly c-rating"
)

// FiveStarRating is a one-to-five star input.
type FiveStarRating struct {
	ReadOnly bool
	Value    int
	// OnRatingChange is called with each accepted rating.
	OnRatingChange func(rating int)
}

// StarClass returns the CSS class for the stars.
func (r *FiveStarRating) StarClass() string {
	if r.ReadOnly {
		return readOnlyClass
	}
	return editableClass
}

// SetRating sets the value when the widget is editable and n is in range,
// and reports whether it did.
func (r *FiveStarRating) SetRating(n int) bool {
	if r.ReadOnly || n < 1 || n > MaxRating {
		return false
	}
	r.Value = n
	if r.OnRatingChange != nil {
		r.OnRatingChange(n)
	}
	return true
}
