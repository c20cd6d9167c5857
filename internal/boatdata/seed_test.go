package boatdata

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/seed.yaml", []byte(fixtureYAML), 0644))

	seed, err := LoadSeed(fs, "/seed.yaml")
	require.NoError(t, err)
	assert.Len(t, seed.BoatTypes, 3)
	assert.Len(t, seed.Boats, 4)
	assert.Len(t, seed.Reviews, 3)
	assert.Equal(t, "Ada", seed.Boats[0].ContactName)

	_, err = LoadSeed(fs, "/missing.yaml")
	assert.Error(t, err)
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := map[string]string{
		"not yaml":        "boats: [",
		"type without id": "boatTypes: [{name: Sailboat}]",
		"boat without id": "boats: [{name: Nameless}]",
		"unknown type":    "boats: [{id: b1, name: X, boatTypeID: zeppelin}]",
		"orphan review":   "reviews: [{boatID: b9, subject: Hi}]",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestApplySeed_Idempotent(t *testing.T) {
	s := newFixtureStore(t)
	ctx := context.Background()

	seed, err := ParseSeed([]byte(`
boatTypes: [{id: sail, name: Sailboat}]
boats: [{id: b9, name: Nine, boatTypeID: sail}]
reviews: [{boatID: b9, subject: Ok, rating: 3}]
`))
	require.NoError(t, err)

	res, err := ApplySeed(ctx, s, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{BoatTypes: 1, Boats: 1, Reviews: 1}, res)

	_, err = ApplySeed(ctx, s, seed)
	require.NoError(t, err)

	reviews, err := s.GetAllReviews(ctx, "b9")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
