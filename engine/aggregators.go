package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Tallying and Ranking via RecordView
// ============================================================================
// Tallies read one field per record and never fail: absent or empty values
// simply contribute nothing (single-valued) or zero tokens (multi-valued,
// absent only).
// ============================================================================

// TallyField counts each distinct non-empty value of a single-valued field.
func TallyField(view RecordView, field string) FrequencyMap {
	counts := make(FrequencyMap)
	for i := 0; i < view.Len(); i++ {
		val, ok := view.Field(i, field)
		if !ok || val == "" {
			continue
		}
		counts[val]++
	}
	return counts
}

// TallyMultiValue splits a field on sep and counts every token.
// Tokens are not trimmed; empty tokens (a present "" value, a trailing
// separator, "a;;b") are counted as the label "".
// An empty sep falls back to DefaultSeparator.
func TallyMultiValue(view RecordView, field, sep string) FrequencyMap {
	if sep == "" {
		sep = DefaultSeparator
	}

	counts := make(FrequencyMap)
	for i := 0; i < view.Len(); i++ {
		val, ok := view.Field(i, field)
		if !ok {
			continue
		}
		for _, token := range strings.Split(val, sep) {
			counts[token]++
		}
	}
	return counts
}

// CountTokens returns how many tokens TallyMultiValue would count for a view.
func CountTokens(view RecordView, field, sep string) int {
	if sep == "" {
		sep = DefaultSeparator
	}
	n := 0
	for i := 0; i < view.Len(); i++ {
		if val, ok := view.Field(i, field); ok {
			n += strings.Count(val, sep) + 1
		}
	}
	return n
}

// ============================================================================
// RANKING
// ============================================================================

// Rank orders every entry of m by count descending, then label ascending.
func Rank(m FrequencyMap) []Entry {
	entries := make([]Entry, 0, len(m))
	for label, count := range m {
		entries = append(entries, Entry{Label: label, Count: count})
	}
	SortEntries(entries)
	return entries
}

// TopN returns the n highest-count entries of m in Rank order.
// n <= 0 yields an empty slice; fewer than n labels yields all of them.
func TopN(m FrequencyMap, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	entries := Rank(m)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// SortEntries sorts in place: count descending, label ascending on ties.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
}
