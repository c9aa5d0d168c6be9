package scraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var sizeValueRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([KMGTP]?)I?B$`)

// ParseSize converts a size string such as "1.5 GiB" or "700 MB" to bytes.
// Binary and decimal prefixes are both treated as powers of 1024.
func ParseSize(size string) (int64, bool) {
	size = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(size, "\u00a0", " ")))
	m := sizeValueRegex.FindStringSubmatch(size)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if m[2] != "" {
		for i := 0; i <= strings.Index("KMGTP", m[2]); i++ {
			value *= 1024
		}
	}
	return int64(value), true
}

// SortBySeeds orders results by seed count, highest first. Ties keep
// their site order.
func SortBySeeds(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Seeds > results[j].Seeds
	})
}

// SortBySize orders results by parsed size, largest first. Results with
// an unparsable size sort last.
func SortBySize(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, okA := ParseSize(results[i].Size)
		b, okB := ParseSize(results[j].Size)
		if okA != okB {
			return okA
		}
		return a > b
	})
}

// Filter keeps results with at least minSeeds seeders and a size of at
// most maxSize bytes. Zero disables a limit. Results whose size cannot be
// parsed pass the size limit. Site order is preserved and the returned
// slice is never nil.
func Filter(results []Result, minSeeds int, maxSize int64) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if minSeeds > 0 && r.Seeds < minSeeds {
			continue
		}
		if maxSize > 0 {
			if size, ok := ParseSize(r.Size); ok && size > maxSize {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}
