package models

import "sort"

// SongSet holds one canonical *Song per key.
type SongSet struct {
	songs map[SongKey]*Song
}

func NewSongSet() *SongSet {
	return &SongSet{songs: make(map[SongKey]*Song)}
}

// Merge inserts song if its key is new, otherwise unions its chart dates into
// the canonical element. The canonical element is returned.
func (s *SongSet) Merge(song *Song) *Song {
	existing, ok := s.songs[song.Key()]
	if !ok {
		s.songs[song.Key()] = song
		return song
	}
	for d := range song.ChartDates {
		existing.ChartDates[d] = struct{}{}
	}
	if !existing.HasLyrics() && song.HasLyrics() {
		existing.Lyrics = song.Lyrics
	}
	return existing
}

func (s *SongSet) Lookup(title, artist string) (*Song, bool) {
	song, ok := s.songs[SongKey{Title: title, Artist: artist}]
	return song, ok
}

func (s *SongSet) Len() int {
	return len(s.songs)
}

// Songs returns the set ordered by artist, then title.
func (s *SongSet) Songs() []*Song {
	out := make([]*Song, 0, len(s.songs))
	for _, song := range s.songs {
		out = append(out, song)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Artist != out[j].Artist {
			return out[i].Artist < out[j].Artist
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func (s *SongSet) AnyLyrics() bool {
	for _, song := range s.songs {
		if song.HasLyrics() {
			return true
		}
	}
	return false
}

// ArtistSongs is one artist and the songs credited to it.
type ArtistSongs struct {
	Artist string
	Songs  []*Song
}

// ByArtist groups the set by artist name, both levels sorted.
func (s *SongSet) ByArtist() []ArtistSongs {
	var groups []ArtistSongs
	index := make(map[string]int)
	for _, song := range s.Songs() {
		i, ok := index[song.Artist]
		if !ok {
			i = len(groups)
			index[song.Artist] = i
			groups = append(groups, ArtistSongs{Artist: song.Artist})
		}
		groups[i].Songs = append(groups[i].Songs, song)
	}
	return groups
}
