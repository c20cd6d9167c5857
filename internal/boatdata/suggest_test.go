package boatdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	names := []string{"Sea Breeze", "Wind Dancer", "Thunder", "Old Salt", "Sea Breeze II"}

	assert.Equal(t, []string{"Sea Breeze"}, Suggest(names, "sea breez"))
	assert.Equal(t, []string{"Thunder"}, Suggest(names, "thundr"))
	assert.Empty(t, Suggest(names, "submarine"))
	assert.Nil(t, Suggest(names, "  "))
}

func TestSuggest_Cap(t *testing.T) {
	names := []string{"aa", "ab", "ac", "ad", "ae"}
	assert.Len(t, Suggest(names, "a"), MaxSuggestions)
}

func TestResolve(t *testing.T) {
	s := newFixtureStore(t)
	ctx := context.Background()

	byID, err := Resolve(ctx, s, "b3")
	require.NoError(t, err)
	assert.Equal(t, "Thunder", byID.Name)

	byName, err := Resolve(ctx, s, "wind dancer")
	require.NoError(t, err)
	assert.Equal(t, "b2", byName.ID)

	_, err = Resolve(ctx, s, "Wind Danser")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"Wind Dancer"}, nf.Suggestions)
	assert.True(t, errors.Is(err, ErrBoatNotFound))
	assert.Contains(t, err.Error(), "did you mean Wind Dancer?")
}
