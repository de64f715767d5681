package execution

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

const (
	maxSuggestionDistance = 2
	maxSuggestions        = 3
)

// Suggest returns up to three names within edit distance two of name,
// closest first.
func Suggest(name string, names []string) []string {
	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	for _, n := range names {
		if n == name {
			continue
		}
		if distance := levenshtein.ComputeDistance(name, n); distance <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name: n, distance: distance})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	var out []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		out = append(out, candidates[i].name)
	}
	return out
}
