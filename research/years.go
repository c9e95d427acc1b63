package research

import (
	"regexp"
	"sort"
	"strconv"
)

// yearPattern matches plausible calendar years 1900-2099 as whole tokens.
// Word boundaries keep embedded digit runs like "12024" or "20999" out.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractYears extracts plausible years (1900-2099) from free text, distinct
// and ascending. Used to detect conflicting founding years. Empty input
// yields an empty result.
func ExtractYears(text string) []int {
	matches := yearPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		seen[y] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)

	return years
}
