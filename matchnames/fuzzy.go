package matchnames

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match names are long and verbose ("ADBE Gaussian Blur 2"), so the
// threshold is loose.
const (
	DefaultMaxDistance = 8
	DefaultTopK        = 5
)

// Suggestion is one ranked "did you mean" candidate.
type Suggestion struct {
	Name     string
	Distance int
}

// Rank returns up to topK candidates within maxDistance single-character
// edits (insert, delete, substitute) of input, nearest first. Ties keep
// the order of candidates, so callers list the more common names first.
// topK <= 0 means no limit.
func Rank(candidates []string, input string, maxDistance, topK int) []Suggestion {
	type ranked struct {
		Suggestion
		index int
	}
	var hits []ranked
	for i, name := range candidates {
		d := fuzzy.LevenshteinDistance(input, name)
		if d <= maxDistance {
			hits = append(hits, ranked{Suggestion{Name: name, Distance: d}, i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].index < hits[b].index
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	out := make([]Suggestion, len(hits))
	for i, h := range hits {
		out[i] = h.Suggestion
	}
	return out
}

// Names extracts the suggestion names in rank order.
func Names(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Name
	}
	return out
}
