package datafile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hot100-lyrics/models"
)

const dateSeparator = "|"

var songsHeader = []string{"title", "artist", "chart_dates", "lyrics"}

// ErrMalformedRow is returned for rows that cannot become a Song, including
// rows with an empty chart_dates field.
var ErrMalformedRow = errors.New("malformed song row")

func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteSongs replaces the file at path with the whole set.
func WriteSongs(path string, set *models.SongSet) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(songsHeader); err != nil {
			return err
		}
		for _, song := range set.Songs() {
			dates := make([]string, 0, len(song.ChartDates))
			for _, d := range song.SortedChartDates() {
				dates = append(dates, models.FormatDate(d))
			}
			row := []string{
				song.Title,
				song.Artist,
				strings.Join(dates, dateSeparator),
				song.LyricsText(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func ReadSongs(path string) (*models.SongSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(songsHeader)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, songsHeader)
	if err != nil {
		return nil, err
	}

	set := models.NewSongSet()
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}

		song, err := parseSongRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w at line %d: %w", ErrMalformedRow, line, err)
		}
		set.Merge(song)
	}

	return set, nil
}

func parseSongRow(row []string, cols map[string]int) (*models.Song, error) {
	raw := row[cols["chart_dates"]]
	if raw == "" {
		return nil, errors.New("empty chart_dates")
	}

	var lyrics *string
	if text := row[cols["lyrics"]]; text != "" {
		lyrics = &text
	}

	song := models.NewSong(row[cols["title"]], row[cols["artist"]], lyrics)
	for _, piece := range strings.Split(raw, dateSeparator) {
		d, err := models.ParseDate(piece)
		if err != nil {
			return nil, err
		}
		song.AddChartDates(d)
	}
	return song, nil
}

func columnIndex(header, want []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range want {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

// writeAtomic writes to a temp file next to path and renames it into place.
func writeAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
