package boatdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/storage"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

const fixtureYAML = `
boatTypes:
  - {id: sail, name: Sailboat}
  - {id: motor, name: Motorboat}
  - {id: fish, name: Fishing Boat}
boats:
  - id: b1
    name: Sea Breeze
    boatTypeID: sail
    price: 200
    length: 30
    contactName: Ada
    location: {latitude: 37.80, longitude: -122.42}
  - id: b2
    name: Wind Dancer
    boatTypeID: sail
    price: 230
    length: 34
    location: {latitude: 37.70, longitude: -122.40}
  - id: b3
    name: Thunder
    boatTypeID: motor
    price: 500
    length: 26
    location: {latitude: 34.05, longitude: -118.24}
  - id: b4
    name: Old Salt
    boatTypeID: fish
    price: 180
    length: 50
    location: {latitude: 47.60, longitude: -122.33}
reviews:
  - {id: r1, boatID: b1, subject: Lovely, rating: 5, time: {created: 1000}}
  - {id: r2, boatID: b1, subject: Wet, rating: 2, time: {created: 3000}}
  - {id: r3, boatID: b1, subject: Fine, rating: 3, time: {created: 2000}}
`

// newFixtureStore returns a store over an in-memory filesystem loaded with the fixture.
func newFixtureStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(storage.NewMemory())
	s.now = func() time.Time { return time.UnixMilli(9000) }

	seed, err := ParseSeed([]byte(fixtureYAML))
	require.NoError(t, err)
	_, err = ApplySeed(context.Background(), s, seed)
	require.NoError(t, err)
	return s
}

func boatIDs(boats []types.Boat) []string {
	ids := make([]string, len(boats))
	for i, b := range boats {
		ids[i] = b.ID
	}
	return ids
}
