package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNewSongHasIndependentChartDates(t *testing.T) {
	a := NewSong("A", "X", nil)
	b := NewSong("B", "Y", nil)

	a.AddChartDates(day(t, "1970-01-03"))

	assert.Len(t, a.ChartDates, 1)
	assert.Empty(t, b.ChartDates)
}

func TestSongIdentityIgnoresLyricsAndDates(t *testing.T) {
	lyrics := "na na na"
	a := NewSong("Hey Jude", "The Beatles", &lyrics, day(t, "1968-09-01"))
	b := NewSong("Hey Jude", "The Beatles", nil)
	c := NewSong("hey jude", "The Beatles", nil)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestOccursInTitleOrLyrics(t *testing.T) {
	lyrics := "All you need is LOVE"
	tests := []struct {
		name    string
		song    *Song
		pattern string
		want    bool
	}{
		{"title case-insensitive", NewSong("LOVE Story", "Taylor Swift", nil), "love", true},
		{"lyrics", NewSong("All You Need", "The Beatles", &lyrics), "love", true},
		{"no lyrics", NewSong("Help!", "The Beatles", nil), "love", false},
		{"regex", NewSong("Lovely Day", "Bill Withers", nil), `^lov\w+ day$`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.song.OccursInTitleOrLyrics(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOccursInTitleOrLyricsInvalidPattern(t *testing.T) {
	_, err := NewSong("x", "y", nil).OccursInTitleOrLyrics("(")
	assert.Error(t, err)
}

func TestSetLyricsOnlyOnce(t *testing.T) {
	s := NewSong("x", "y", nil)
	s.SetLyrics("first")
	s.SetLyrics("second")
	assert.Equal(t, "first", s.LyricsText())
}

func TestYearsAreDistinct(t *testing.T) {
	s := NewSong("x", "y", nil,
		day(t, "1968-09-01"), day(t, "1968-09-08"), day(t, "1969-01-04"))
	assert.Equal(t, []int{1968, 1969}, s.Years())
}

func TestSongSetMergeUnionsChartDates(t *testing.T) {
	set := NewSongSet()
	first := set.Merge(NewSong("Hey Jude", "The Beatles", nil, day(t, "1968-09-01")))
	second := set.Merge(NewSong("Hey Jude", "The Beatles", nil, day(t, "1968-09-08")))

	require.Equal(t, 1, set.Len())
	assert.Same(t, first, second)
	assert.Equal(t,
		[]time.Time{day(t, "1968-09-01"), day(t, "1968-09-08")},
		first.SortedChartDates())

	got, ok := set.Lookup("Hey Jude", "The Beatles")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestSongSetByArtist(t *testing.T) {
	set := NewSongSet()
	set.Merge(NewSong("Let It Be", "The Beatles", nil))
	set.Merge(NewSong("Angie", "The Rolling Stones", nil))
	set.Merge(NewSong("Hey Jude", "The Beatles", nil))

	groups := set.ByArtist()
	require.Len(t, groups, 2)
	assert.Equal(t, "The Beatles", groups[0].Artist)
	require.Len(t, groups[0].Songs, 2)
	assert.Equal(t, "Hey Jude", groups[0].Songs[0].Title)
	assert.Equal(t, "The Rolling Stones", groups[1].Artist)
}

func TestSongSetAnyLyrics(t *testing.T) {
	set := NewSongSet()
	empty := ""
	set.Merge(NewSong("a", "b", &empty))
	assert.False(t, set.AnyLyrics())

	set.Merge(NewSong("c", "d", nil)).SetLyrics("words")
	assert.True(t, set.AnyLyrics())
}
