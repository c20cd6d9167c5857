package boatdata

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
	"github.com/telnet2/go-practice/go-boatbus/internal/storage"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Storage key prefixes.
const (
	boatTypesKey = "boat_types"
	boatsKey     = "boats"
	reviewsKey   = "reviews"
)

// Store implements Service on top of file storage.
//
// Layout:
//
//	boat_types/{id}.json
//	boats/{id}.json
//	reviews/{boatID}/{reviewID}.json
type Store struct {
	storage *storage.Storage
	now     func() time.Time
	log     zerolog.Logger

	// writes serializes read-modify-write cycles.
	writes sync.Mutex
}

// NewStore creates a Store over s.
func NewStore(s *storage.Storage) *Store {
	return &Store{
		storage: s,
		now:     time.Now,
		log:     logging.Component("boatdata"),
	}
}

// Storage returns the underlying storage.
func (s *Store) Storage() *storage.Storage {
	return s.storage
}

// GetBoatTypes implements Service.
func (s *Store) GetBoatTypes(ctx context.Context) ([]types.BoatType, error) {
	boatTypes := []types.BoatType{}
	err := s.storage.Scan(ctx, []string{boatTypesKey}, func(key string, data json.RawMessage) error {
		var bt types.BoatType
		if err := json.Unmarshal(data, &bt); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping unreadable boat type")
			return nil
		}
		boatTypes = append(boatTypes, bt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list boat types: %w", err)
	}

	slices.SortFunc(boatTypes, func(a, b types.BoatType) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return boatTypes, nil
}

// GetBoats implements Service.
func (s *Store) GetBoats(ctx context.Context, boatTypeID string) ([]types.Boat, error) {
	all, err := s.allBoats(ctx)
	if err != nil {
		return nil, err
	}
	if boatTypeID == "" {
		return all, nil
	}
	return slices.DeleteFunc(all, func(b types.Boat) bool { return b.BoatTypeID != boatTypeID }), nil
}

// GetBoat implements Service.
func (s *Store) GetBoat(ctx context.Context, id string) (*types.Boat, error) {
	if id == "" {
		return nil, ErrBoatNotFound
	}
	var boat types.Boat
	if err := s.storage.Get(ctx, []string{boatsKey, id}, &boat); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBoatNotFound, id)
		}
		return nil, fmt.Errorf("get boat %s: %w", id, err)
	}
	s.fillTypeName(ctx, &boat)
	return &boat, nil
}

// GetAllReviews implements Service.
func (s *Store) GetAllReviews(ctx context.Context, boatID string) ([]types.BoatReview, error) {
	reviews := []types.BoatReview{}
	if boatID == "" {
		return reviews, nil
	}
	err := s.storage.Scan(ctx, []string{reviewsKey, boatID}, func(key string, data json.RawMessage) error {
		var r types.BoatReview
		if err := json.Unmarshal(data, &r); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping unreadable review")
			return nil
		}
		reviews = append(reviews, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", boatID, err)
	}

	// Newest first; ULIDs break ties in creation order.
	slices.SortFunc(reviews, func(a, b types.BoatReview) int {
		return cmp.Or(cmp.Compare(b.Time.Created, a.Time.Created), strings.Compare(b.ID, a.ID))
	})
	return reviews, nil
}

// GetSimilarBoats implements Service.
func (s *Store) GetSimilarBoats(ctx context.Context, boatID string, by SimilarBy) ([]types.Boat, error) {
	if _, err := ParseSimilarBy(string(by)); err != nil {
		return nil, err
	}
	boat, err := s.GetBoat(ctx, boatID)
	if err != nil {
		return nil, err
	}
	all, err := s.allBoats(ctx)
	if err != nil {
		return nil, err
	}
	return similar(*boat, all, by), nil
}

// GetBoatsByLocation implements Service.
func (s *Store) GetBoatsByLocation(ctx context.Context, loc types.GeoPoint, boatTypeID string) ([]types.Boat, error) {
	boats, err := s.GetBoats(ctx, boatTypeID)
	if err != nil {
		return nil, err
	}
	return nearest(loc, boats, NearbyLimit), nil
}

// UpdateBoatList implements Service. Updates naming the same boat are merged
// in order, and every update is validated before any boat is written. When a
// write fails, boats already written are restored to their previous state.
// The result holds one boat per distinct ID, in first-seen order.
func (s *Store) UpdateBoatList(ctx context.Context, updates []BoatUpdate) ([]types.Boat, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	var order []string
	working := make(map[string]*types.Boat)
	original := make(map[string]types.Boat)
	for _, u := range updates {
		boat, ok := working[u.ID]
		if !ok {
			loaded, err := s.GetBoat(ctx, u.ID)
			if err != nil {
				return nil, err
			}
			original[u.ID] = *loaded
			working[u.ID] = loaded
			order = append(order, u.ID)
			boat = loaded
		}
		if err := u.apply(boat); err != nil {
			return nil, err
		}
	}

	updated := make([]types.Boat, 0, len(order))
	for i, id := range order {
		b := *working[id]
		if err := s.storage.Put(ctx, []string{boatsKey, id}, b); err != nil {
			s.restoreBoats(ctx, order[:i], original)
			return nil, fmt.Errorf("save boat %s: %w", id, err)
		}
		updated = append(updated, b)
	}
	s.log.Info().Int("count", len(updated)).Msg("boats updated")
	return updated, nil
}

// restoreBoats rewrites the saved copies of ids. It ignores cancellation so a
// cancelled batch still rolls back.
func (s *Store) restoreBoats(ctx context.Context, ids []string, saved map[string]types.Boat) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := s.storage.Put(ctx, []string{boatsKey, id}, saved[id]); err != nil {
			s.log.Error().Err(err).Str("boat", id).Msg("restore boat failed")
		}
	}
}

// CreateReview implements Service.
func (s *Store) CreateReview(ctx context.Context, review types.BoatReview) (*types.BoatReview, error) {
	if err := validateReview(review); err != nil {
		return nil, err
	}
	if _, err := s.GetBoat(ctx, review.BoatID); err != nil {
		return nil, err
	}

	review.ID = ulid.Make().String()
	if review.Time.Created == 0 {
		review.Time.Created = s.now().UnixMilli()
	}
	if err := s.storage.Put(ctx, []string{reviewsKey, review.BoatID, review.ID}, review); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	s.log.Info().Str("boat", review.BoatID).Str("review", review.ID).Msg("review created")
	return &review, nil
}

// SaveBoatType creates or replaces a boat type.
func (s *Store) SaveBoatType(ctx context.Context, bt types.BoatType) error {
	if bt.ID == "" {
		return fmt.Errorf("%w: boat type without id", ErrInvalidBoat)
	}
	return s.storage.Put(ctx, []string{boatTypesKey, bt.ID}, bt)
}

// SaveBoat creates or replaces a boat, assigning an ID when missing.
func (s *Store) SaveBoat(ctx context.Context, b *types.Boat) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidBoat)
	}
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return s.storage.Put(ctx, []string{boatsKey, b.ID}, b)
}

// SaveReview stores a review as given, assigning an ID when missing.
func (s *Store) SaveReview(ctx context.Context, r *types.BoatReview) error {
	if err := validateReview(*r); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	return s.storage.Put(ctx, []string{reviewsKey, r.BoatID, r.ID}, r)
}

// allBoats returns every boat ordered by name with type names filled in.
func (s *Store) allBoats(ctx context.Context) ([]types.Boat, error) {
	names, err := s.typeNames(ctx)
	if err != nil {
		return nil, err
	}

	boats := []types.Boat{}
	err = s.storage.Scan(ctx, []string{boatsKey}, func(key string, data json.RawMessage) error {
		var b types.Boat
		if err := json.Unmarshal(data, &b); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping unreadable boat")
			return nil
		}
		if b.BoatTypeName == "" {
			b.BoatTypeName = names[b.BoatTypeID]
		}
		boats = append(boats, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list boats: %w", err)
	}

	slices.SortFunc(boats, byName)
	return boats, nil
}

func (s *Store) typeNames(ctx context.Context) (map[string]string, error) {
	boatTypes, err := s.GetBoatTypes(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(boatTypes))
	for _, bt := range boatTypes {
		names[bt.ID] = bt.Name
	}
	return names, nil
}

func (s *Store) fillTypeName(ctx context.Context, b *types.Boat) {
	if b.BoatTypeName != "" || b.BoatTypeID == "" {
		return
	}
	var bt types.BoatType
	if err := s.storage.Get(ctx, []string{boatTypesKey, b.BoatTypeID}, &bt); err == nil {
		b.BoatTypeName = bt.Name
	}
}

var _ Service = (*Store)(nil)
