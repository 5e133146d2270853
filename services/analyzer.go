package services

import (
	"fmt"

	"hot100-lyrics/models"
)

// CountByYear counts, per calendar year, the songs that charted that year and
// match pattern in title or lyrics. Every charted year gets an entry, even
// with zero matches. A song adds at most one to each of its years.
func CountByYear(songs []*models.Song, pattern string) (map[int]int, error) {
	re, err := models.CompilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	counts := make(map[int]int)
	for _, song := range songs {
		matches := song.Matches(re)
		for _, year := range song.Years() {
			if _, ok := counts[year]; !ok {
				counts[year] = 0
			}
			if matches {
				counts[year]++
			}
		}
	}
	return counts, nil
}
