package utils

import (
	"regexp"
	"sort"
	"strconv"
)

var ordinalRegex = regexp.MustCompile(`\d+`)

// LabelOrdinal extracts the first run of digits in a label such as
// "Question 5" or "Mission 10: The Continental Circuit".
func LabelOrdinal(label string) (int, bool) {
	match := ordinalRegex.FindString(label)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OrderByOrdinal returns the indexes of labels sorted by ordinal. Labels
// without a number sort last; ties keep their input order.
func OrderByOrdinal(labels []string) []int {
	type entry struct {
		idx     int
		ordinal int
		ok      bool
	}

	entries := make([]entry, len(labels))
	for i, label := range labels {
		n, ok := LabelOrdinal(label)
		entries[i] = entry{idx: i, ordinal: n, ok: ok}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ok && a.ordinal < b.ordinal
	})

	order := make([]int, len(entries))
	for i, e := range entries {
		order[i] = e.idx
	}
	return order
}
