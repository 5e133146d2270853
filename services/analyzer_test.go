package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hot100-lyrics/models"
)

func TestCountByYearScenario(t *testing.T) {
	set := models.NewSongSet()
	set.Merge(models.NewSong("Hey Jude", "The Beatles", nil,
		mustDay(t, "1968-09-01"), mustDay(t, "1968-09-08")))
	set.Merge(models.NewSong("Let It Be", "The Beatles", nil, mustDay(t, "1970-03-01")))

	counts, err := CountByYear(set.Songs(), "let")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1968: 0, 1970: 1}, counts)
}

func TestCountByYearOncePerSongYear(t *testing.T) {
	lyrics := "love love love"
	songs := []*models.Song{
		models.NewSong("Crazy Little Thing", "Queen", &lyrics,
			mustDay(t, "1980-01-05"), mustDay(t, "1980-02-09"), mustDay(t, "1980-03-01"),
			mustDay(t, "1981-01-03"), mustDay(t, "1982-01-02")),
		models.NewSong("LOVE Story", "Taylor Swift", nil, mustDay(t, "1980-06-07")),
		models.NewSong("Another One", "Queen", nil, mustDay(t, "1980-09-06")),
	}

	counts, err := CountByYear(songs, "love")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1980: 2, 1981: 1, 1982: 1}, counts)
}

func TestCountByYearIdempotent(t *testing.T) {
	songs := []*models.Song{
		models.NewSong("Love Me Do", "The Beatles", nil, mustDay(t, "1964-05-30")),
		models.NewSong("Help!", "The Beatles", nil, mustDay(t, "1965-09-04")),
	}

	first, err := CountByYear(songs, "love")
	require.NoError(t, err)
	second, err := CountByYear(songs, "love")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCountByYearBadPattern(t *testing.T) {
	_, err := CountByYear(nil, "[")
	assert.ErrorContains(t, err, `bad pattern "["`)
}
