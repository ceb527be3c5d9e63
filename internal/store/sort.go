package store

import (
	"fmt"
	"sort"
	"strings"
)

type SortBy int

const (
	SortAge SortBy = iota
	SortPriority
)

func ParseSortBy(s string) (SortBy, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "age":
		return SortAge, nil
	case "priority":
		return SortPriority, nil
	default:
		return 0, fmt.Errorf("%w: unknown sort %q (use age|priority)", ErrParse, s)
	}
}

// OrderBy reorders entries in place for display. The persisted file order is
// never touched; callers sort the loaded slice and hand it to presentation.
//
// Age is oldest first. Priority sorts ascending by score and then reverses
// the whole slice, so high lands first and equal-priority runs come out in
// reverse file order.
func OrderBy(entries []Entry, by SortBy) {
	switch by {
	case SortPriority:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Priority.Score() < entries[j].Priority.Score()
		})
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp < entries[j].Timestamp
		})
	}
}
