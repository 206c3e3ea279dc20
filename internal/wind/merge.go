package wind

import "sort"

// MergeObservations appends incoming rows to existing ones, collapses exact
// duplicate timestamps keeping the first occurrence, and returns the result
// sorted by timestamp. The output satisfies the strictly-increasing unique
// timestamp invariant of the cache.
func MergeObservations(existing, incoming []Observation) []Observation {
	merged := make([]Observation, 0, len(existing)+len(incoming))
	seen := make(map[int64]struct{}, len(existing)+len(incoming))

	for _, obs := range existing {
		key := obs.Time.Unix()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, obs)
	}
	for _, obs := range incoming {
		key := obs.Time.Unix()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, obs)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time.Before(merged[j].Time)
	})
	return merged
}
