package datafile

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
)

// WriteResults writes year,occurrences rows in ascending year order.
func WriteResults(path string, counts map[int]int) error {
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"year", "occurrences"}); err != nil {
			return err
		}
		for _, y := range years {
			if err := cw.Write([]string{strconv.Itoa(y), strconv.Itoa(counts[y])}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}
