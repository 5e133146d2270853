package models

import (
	"regexp"
	"sort"
	"time"
)

// DateFormat is the day-granularity layout used for chart dates everywhere.
const DateFormat = "2006-01-02"

// SongKey is the identity of a song. Lyrics and chart dates are not part of it.
type SongKey struct {
	Title  string
	Artist string
}

// Song is one distinct (title, artist) pair seen on the chart.
type Song struct {
	Title      string
	Artist     string
	Lyrics     *string
	ChartDates map[time.Time]struct{}
}

// NewSong always allocates a fresh chart date set for the instance.
func NewSong(title, artist string, lyrics *string, chartDates ...time.Time) *Song {
	s := &Song{
		Title:      title,
		Artist:     artist,
		Lyrics:     lyrics,
		ChartDates: make(map[time.Time]struct{}, len(chartDates)),
	}
	s.AddChartDates(chartDates...)
	return s
}

func (s *Song) Key() SongKey {
	return SongKey{Title: s.Title, Artist: s.Artist}
}

// Equal compares identity only.
func (s *Song) Equal(other *Song) bool {
	if other == nil {
		return false
	}
	return s.Key() == other.Key()
}

func (s *Song) AddChartDates(dates ...time.Time) {
	for _, d := range dates {
		s.ChartDates[TruncateDay(d)] = struct{}{}
	}
}

func (s *Song) SortedChartDates() []time.Time {
	dates := make([]time.Time, 0, len(s.ChartDates))
	for d := range s.ChartDates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Years returns the distinct calendar years the song charted in, ascending.
func (s *Song) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for d := range s.ChartDates {
		if !seen[d.Year()] {
			seen[d.Year()] = true
			years = append(years, d.Year())
		}
	}
	sort.Ints(years)
	return years
}

func (s *Song) HasLyrics() bool {
	return s.Lyrics != nil && *s.Lyrics != ""
}

func (s *Song) LyricsText() string {
	if s.Lyrics == nil {
		return ""
	}
	return *s.Lyrics
}

// SetLyrics sets lyrics at most once; later calls are ignored.
func (s *Song) SetLyrics(lyrics string) {
	if s.HasLyrics() {
		return
	}
	s.Lyrics = &lyrics
}

// OccursInTitleOrLyrics compiles pattern case-insensitively and matches it
// against the title or the lyrics.
func (s *Song) OccursInTitleOrLyrics(pattern string) (bool, error) {
	re, err := CompilePattern(pattern)
	if err != nil {
		return false, err
	}
	return s.Matches(re), nil
}

func (s *Song) Matches(re *regexp.Regexp) bool {
	return re.MatchString(s.Title) || re.MatchString(s.LyricsText())
}

func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// TruncateDay drops the time of day and normalises to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ChartEntry is one line of a weekly chart.
type ChartEntry struct {
	Title  string
	Artist string
}

// ChartSnapshot is one week of the chart. Date is the provider-confirmed
// week, which may differ from the requested date.
type ChartSnapshot struct {
	Date    time.Time
	Entries []ChartEntry
}

// Artist is the lyrics provider's resolved artist record.
type Artist struct {
	ID   int
	Name string
}

// LyricsResult is a successful song lookup.
type LyricsResult struct {
	Title  string
	Artist string
	URL    string
	Lyrics string
}

type MissingSong struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// MissingInfo is the document of unresolved lookups.
type MissingInfo struct {
	Artists []string      `json:"artists"`
	Songs   []MissingSong `json:"songs"`
}
