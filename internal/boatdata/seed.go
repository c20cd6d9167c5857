package boatdata

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Seed is the content of a YAML seed file.
//
//	boatTypes:
//	  - {id: sail, name: Sailboat}
//	boats:
//	  - id: b1
//	    name: Sea Breeze
//	    boatTypeID: sail
//	    price: 240
//	    length: 32
//	    location: {latitude: 37.80, longitude: -122.42}
//	reviews:
//	  - {boatID: b1, subject: Great day, rating: 5}
type Seed struct {
	BoatTypes []types.BoatType   `yaml:"boatTypes"`
	Boats     []types.Boat       `yaml:"boats"`
	Reviews   []types.BoatReview `yaml:"reviews"`
}

// SeedResult counts what ApplySeed wrote.
type SeedResult struct {
	BoatTypes int `json:"boatTypes"`
	Boats     int `json:"boats"`
	Reviews   int `json:"reviews"`
}

// LoadSeed reads and parses a seed file from fs.
func LoadSeed(fs afero.Fs, path string) (*Seed, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML. Every boat must reference a declared boat type
// and every review a declared boat.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	typeIDs := make(map[string]bool, len(seed.BoatTypes))
	for _, bt := range seed.BoatTypes {
		if bt.ID == "" {
			return nil, fmt.Errorf("parse seed: boat type %q has no id", bt.Name)
		}
		typeIDs[bt.ID] = true
	}
	boatIDs := make(map[string]bool, len(seed.Boats))
	for _, b := range seed.Boats {
		if b.ID == "" {
			return nil, fmt.Errorf("parse seed: boat %q has no id", b.Name)
		}
		if b.BoatTypeID != "" && !typeIDs[b.BoatTypeID] {
			return nil, fmt.Errorf("parse seed: boat %s has unknown type %q", b.ID, b.BoatTypeID)
		}
		boatIDs[b.ID] = true
	}
	for _, r := range seed.Reviews {
		if !boatIDs[r.BoatID] {
			return nil, fmt.Errorf("parse seed: review %q for unknown boat %q", r.Subject, r.BoatID)
		}
	}
	return &seed, nil
}

// ApplySeed writes the seed into the store. Existing records with the same
// IDs are replaced; others are left alone.
func ApplySeed(ctx context.Context, s *Store, seed *Seed) (SeedResult, error) {
	var res SeedResult
	for _, bt := range seed.BoatTypes {
		if err := s.SaveBoatType(ctx, bt); err != nil {
			return res, err
		}
		res.BoatTypes++
	}
	for i := range seed.Boats {
		if err := s.SaveBoat(ctx, &seed.Boats[i]); err != nil {
			return res, err
		}
		res.Boats++
	}
	for i := range seed.Reviews {
		// Stable IDs keep a re-applied seed from duplicating reviews.
		if seed.Reviews[i].ID == "" {
			seed.Reviews[i].ID = fmt.Sprintf("seed-%s-%d", seed.Reviews[i].BoatID, i)
		}
		if err := s.SaveReview(ctx, &seed.Reviews[i]); err != nil {
			return res, err
		}
		res.Reviews++
	}

	s.log.Info().
		Int("boatTypes", res.BoatTypes).
		Int("boats", res.Boats).
		Int("reviews", res.Reviews).
		Msg("seed applied")
	return res, nil
}
