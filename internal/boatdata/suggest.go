package boatdata

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// MaxSuggestions caps the number of names Suggest returns.
const MaxSuggestions = 3

// Suggest returns the names closest to query by edit distance, ignoring case.
// Only names within a third of the query length (at least 2 edits) qualify.
func Suggest(names []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	limit := max(2, len(q)/3)

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, n := range names {
		d := levenshtein.ComputeDistance(q, strings.ToLower(n))
		if d <= limit {
			cands = append(cands, candidate{name: n, dist: d})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), strings.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(len(cands), MaxSuggestions))
	for _, c := range cands {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// NotFoundError reports a boat reference that matched nothing, with the
// closest boat names.
type NotFoundError struct {
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no boat matches %q", e.Query)
	}
	return fmt.Sprintf("no boat matches %q, did you mean %s?", e.Query, strings.Join(e.Suggestions, ", "))
}

// Unwrap returns ErrBoatNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrBoatNotFound
}

// Resolve finds a boat by ID or by case-insensitive name. When nothing
// matches it returns a *NotFoundError carrying suggestions.
func Resolve(ctx context.Context, svc Service, ref string) (*types.Boat, error) {
	boats, err := svc.GetBoats(ctx, "")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(boats))
	for i, b := range boats {
		if b.ID == ref || strings.EqualFold(b.Name, ref) {
			return &boats[i], nil
		}
		names = append(names, b.Name)
	}
	return nil, &NotFoundError{Query: ref, Suggestions: Suggest(names, ref)}
}
