package usecase

import "travel-agent/internal/domain"

// MergePreferences combines a fresh extraction with the previous record.
// Visited destinations accumulate as a set union; every other field is taken
// from next.
func MergePreferences(prev domain.StoredPreferences, next domain.TravelPreferences) domain.TravelPreferences {
	merged := next.Normalized()
	merged.VisitedDestinations = unionDestinations(prev.VisitedDestinations(), next.VisitedDestinations)
	return merged
}

// unionDestinations returns the distinct values of a followed by those of b
// not already present.
func unionDestinations(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, d := range list {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}
