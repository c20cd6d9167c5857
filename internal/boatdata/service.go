// Package boatdata answers the boat, boat type and review queries the widgets
// depend on.
package boatdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

var (
	ErrBoatNotFound    = errors.New("boat not found")
	ErrInvalidReview   = errors.New("invalid review")
	ErrInvalidBoat     = errors.New("invalid boat")
	ErrInvalidCriteria = errors.New("invalid similarity criteria")
)

// NearbyLimit is the number of boats GetBoatsByLocation returns.
const NearbyLimit = 10

// SimilarBy selects how GetSimilarBoats compares boats.
type SimilarBy string

const (
	SimilarByType   SimilarBy = "Type"
	SimilarByLength SimilarBy = "Length"
	SimilarByPrice  SimilarBy = "Price"
)

// ParseSimilarBy parses a similarity criterion, ignoring case.
func ParseSimilarBy(s string) (SimilarBy, error) {
	for _, by := range []SimilarBy{SimilarByType, SimilarByLength, SimilarByPrice} {
		if strings.EqualFold(s, string(by)) {
			return by, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCriteria, s)
}

// BoatUpdate is an inline edit of a boat. Nil fields are left unchanged.
type BoatUpdate struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// Service is the data query collaborator used by the widgets and the HTTP API.
type Service interface {
	// GetBoatTypes returns every boat type ordered by name.
	GetBoatTypes(ctx context.Context) ([]types.BoatType, error)
	// GetBoats returns the boats of a type, or all boats when boatTypeID is empty.
	GetBoats(ctx context.Context, boatTypeID string) ([]types.Boat, error)
	// GetBoat returns one boat or ErrBoatNotFound.
	GetBoat(ctx context.Context, id string) (*types.Boat, error)
	// GetAllReviews returns the reviews of a boat, newest first.
	GetAllReviews(ctx context.Context, boatID string) ([]types.BoatReview, error)
	// GetSimilarBoats returns boats resembling boatID by the given criterion.
	GetSimilarBoats(ctx context.Context, boatID string, by SimilarBy) ([]types.Boat, error)
	// GetBoatsByLocation returns the boats nearest to loc, at most NearbyLimit.
	GetBoatsByLocation(ctx context.Context, loc types.GeoPoint, boatTypeID string) ([]types.Boat, error)
	// UpdateBoatList applies all updates or none and returns the updated
	// boats, one per distinct ID. Updates for the same boat are merged in order.
	UpdateBoatList(ctx context.Context, updates []BoatUpdate) ([]types.Boat, error)
	// CreateReview stores a new review and returns it with its ID and time set.
	CreateReview(ctx context.Context, review types.BoatReview) (*types.BoatReview, error)
}

// validateReview checks the fields a caller must supply.
func validateReview(r types.BoatReview) error {
	if r.BoatID == "" {
		return fmt.Errorf("%w: boat is required", ErrInvalidReview)
	}
	if strings.TrimSpace(r.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidReview)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("%w: rating %d out of range", ErrInvalidReview, r.Rating)
	}
	return nil
}

// apply merges u into b.
func (u BoatUpdate) apply(b *types.Boat) error {
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return fmt.Errorf("%w: %s: name is required", ErrInvalidBoat, u.ID)
		}
		b.Name = *u.Name
	}
	if u.Length != nil {
		if *u.Length < 0 {
			return fmt.Errorf("%w: %s: negative length", ErrInvalidBoat, u.ID)
		}
		b.Length = *u.Length
	}
	if u.Price != nil {
		if *u.Price < 0 {
			return fmt.Errorf("%w: %s: negative price", ErrInvalidBoat, u.ID)
		}
		b.Price = *u.Price
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	return nil
}
