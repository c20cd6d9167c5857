package boatdata

import (
	"cmp"
	"slices"
	"strings"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// similarityRatio bounds Length and Price similarity to [x/ratio, x*ratio].
const similarityRatio = 1.2

// similar filters candidates that resemble boat by the criterion. The boat
// itself is never included. Results are ordered by length, price, then name.
func similar(boat types.Boat, candidates []types.Boat, by SimilarBy) []types.Boat {
	out := []types.Boat{}
	for _, c := range candidates {
		if c.ID == boat.ID {
			continue
		}
		var ok bool
		switch by {
		case SimilarByType:
			ok = c.BoatTypeID == boat.BoatTypeID
		case SimilarByLength:
			ok = within(c.Length, boat.Length)
		case SimilarByPrice:
			ok = within(c.Price, boat.Price)
		}
		if ok {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b types.Boat) int {
		return cmp.Or(
			cmp.Compare(a.Length, b.Length),
			cmp.Compare(a.Price, b.Price),
			strings.Compare(a.Name, b.Name),
		)
	})
	return out
}

func within(v, ref float64) bool {
	return v >= ref/similarityRatio && v <= ref*similarityRatio
}

// nearest returns up to limit boats ordered by distance from loc.
func nearest(loc types.GeoPoint, boats []types.Boat, limit int) []types.Boat {
	type ranked struct {
		boat types.Boat
		km   float64
	}
	rs := make([]ranked, len(boats))
	for i, b := range boats {
		rs[i] = ranked{boat: b, km: loc.DistanceKm(b.Location)}
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		return cmp.Or(cmp.Compare(a.km, b.km), strings.Compare(a.boat.ID, b.boat.ID))
	})

	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	out := make([]types.Boat, len(rs))
	for i, r := range rs {
		out[i] = r.boat
	}
	return out
}

// byName orders boats by name, then ID.
func byName(a, b types.Boat) int {
	return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
}
