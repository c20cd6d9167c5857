package widget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
)

func TestSimilarBoats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		by   boatdata.SimilarBy
		boat string
		want []string
	}{
		{by: boatdata.SimilarByType, boat: "b1", want: []string{"b2"}},
		{by: boatdata.SimilarByLength, boat: "b1", want: []string{"b3", "b2"}},
		{by: boatdata.SimilarByPrice, boat: "b3", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			s := NewSimilarBoats(f.env, tt.by)
			assert.True(t, s.NoBoats())
			assert.Equal(t, "Similar boats by "+string(tt.by), s.Title())

			require.NoError(t, s.SetBoatID(ctx, tt.boat))
			assert.Equal(t, tt.want, ids(s.Boats()))
			assert.Equal(t, len(tt.want) == 0, s.NoBoats())
		})
	}
}

func TestSimilarBoats_Errors(t *testing.T) {
	f := newFixture(t)
	s := NewSimilarBoats(f.env, boatdata.SimilarByType)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))

	require.ErrorIs(t, s.SetBoatID(ctx, "nope"), boatdata.ErrBoatNotFound)
	assert.ErrorIs(t, s.Err(), boatdata.ErrBoatNotFound)
	assert.True(t, s.NoBoats())
}

func TestSimilarBoats_OpenBoatDetailPage(t *testing.T) {
	f := newFixture(t)
	s := NewSimilarBoats(f.env, boatdata.SimilarByType)

	require.NoError(t, s.OpenBoatDetailPage("b2"))
	assert.Equal(t, navigation.RecordView("b2", navigation.BoatObject), f.lastNav(t))
}
