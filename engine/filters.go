package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — per-chart record selection via RecordView
// ============================================================================
// Single-pass filter: checks ALL field constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all field filters.
// Fields are AND-combined; values within a field are OR-combined and compared
// case-insensitively. An absent field never matches.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	sets := make(map[string]map[string]bool)
	for field, allowed := range filters.Fields {
		if len(allowed) > 0 {
			sets[field] = toLowerSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for field, set := range sets {
			val, ok := view.Field(i, field)
			if !ok || !set[strings.ToLower(val)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
