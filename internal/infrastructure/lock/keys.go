// Package lock provides ordered multi-key locks guarding room occupancy.
package lock

import "sort"

// orderKeys sorts keys ascending and drops duplicates and empty keys.
// Every locker acquires in this order, which rules out lock-order deadlocks
// between callers with overlapping key sets.
func orderKeys(keys []string) []string {
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			ordered = append(ordered, k)
		}
	}
	sort.Strings(ordered)

	out := ordered[:0]
	for i, k := range ordered {
		if i > 0 && k == ordered[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}
