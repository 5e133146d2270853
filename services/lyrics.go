package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hot100-lyrics/cache"
	"hot100-lyrics/models"
)

// One best-match result is enough to resolve an artist.
const artistSearchResults = 1

type LyricsSource interface {
	SearchArtist(ctx context.Context, name string, maxResults int) (*models.Artist, error)
	SearchSong(ctx context.Context, title, artistName string) (*models.LyricsResult, error)
}

type MissingRecorder interface {
	AddArtist(name string) error
	AddSong(title, artist string) error
}

// LookupStore remembers lookup outcomes between runs. *cache.LookupCache
// implements it.
type LookupStore interface {
	GetArtist(name string) (*cache.ArtistEntry, bool)
	SetArtist(name, resolvedName string, found bool)
	Get(artist, title string) (*cache.Entry, bool)
	Set(artist, title, lyrics string, found bool)
}

type EnrichSummary struct {
	Artists        int
	ArtistsMissing int
	LyricsFound    int
	LyricsMissing  int
	FromCache      int
}

// Enricher resolves each artist once, then each of its songs.
type Enricher struct {
	source  LyricsSource
	missing MissingRecorder
	lookups LookupStore
	delay   time.Duration
	sleep   func(time.Duration)
	log     zerolog.Logger
}

// NewEnricher builds an Enricher. lookups may be nil, in which case every
// run starts from scratch.
func NewEnricher(source LyricsSource, missing MissingRecorder, lookups LookupStore,
	delay time.Duration, log zerolog.Logger) *Enricher {
	return &Enricher{
		source:  source,
		missing: missing,
		lookups: lookups,
		delay:   delay,
		sleep:   time.Sleep,
		log:     log,
	}
}

// Enrich sets lyrics in place on the songs of set. Misses are recorded and
// skipped; provider failures abort.
func (e *Enricher) Enrich(ctx context.Context, set *models.SongSet) (*EnrichSummary, error) {
	e.log.Info().Int("songs", set.Len()).Msg("Finding lyrics")
	sum := &EnrichSummary{}

	for _, group := range set.ByArtist() {
		sum.Artists++

		artist, err := e.resolveArtist(ctx, group.Artist)
		if err != nil {
			e.log.Error().Err(err).Str("artist", group.Artist).Msg("Failed at artist")
			return sum, fmt.Errorf("search artist %q: %w", group.Artist, err)
		}
		if artist == nil {
			sum.ArtistsMissing++
			continue
		}

		for _, song := range group.Songs {
			if song.HasLyrics() {
				continue
			}
			if err := e.enrichSong(ctx, song, artist, sum); err != nil {
				return sum, err
			}
		}
	}

	e.log.Info().
		Int("artists", sum.Artists).
		Int("artists_missing", sum.ArtistsMissing).
		Int("lyrics_found", sum.LyricsFound).
		Int("lyrics_missing", sum.LyricsMissing).
		Int("from_cache", sum.FromCache).
		Msg("All available lyrics found")
	return sum, nil
}

// resolveArtist returns nil for an artist Genius does not know. A fresh miss
// is written to the missing log; a remembered one is not logged twice.
func (e *Enricher) resolveArtist(ctx context.Context, name string) (*models.Artist, error) {
	if e.lookups != nil {
		if entry, ok := e.lookups.GetArtist(name); ok {
			if !entry.Found {
				return nil, nil
			}
			return &models.Artist{Name: entry.ResolvedName}, nil
		}
	}

	artist, err := e.source.SearchArtist(ctx, name, artistSearchResults)
	if err != nil {
		return nil, err
	}
	e.sleep(e.delay)

	if artist == nil {
		e.log.Warn().Str("artist", name).Msg("Artist not found")
		if err := e.missing.AddArtist(name); err != nil {
			return nil, fmt.Errorf("record missing artist: %w", err)
		}
		if e.lookups != nil {
			e.lookups.SetArtist(name, "", false)
		}
		return nil, nil
	}

	if e.lookups != nil {
		e.lookups.SetArtist(name, artist.Name, true)
	}
	return artist, nil
}

func (e *Enricher) enrichSong(ctx context.Context, song *models.Song, artist *models.Artist, sum *EnrichSummary) error {
	if e.lookups != nil {
		if entry, ok := e.lookups.Get(song.Artist, song.Title); ok {
			sum.FromCache++
			if entry.Found {
				song.SetLyrics(entry.Lyrics)
				sum.LyricsFound++
			} else {
				sum.LyricsMissing++
			}
			return nil
		}
	}

	result, err := e.source.SearchSong(ctx, song.Title, artist.Name)
	if err != nil {
		e.log.Error().Err(err).Str("artist", song.Artist).Str("title", song.Title).Msg("Failed at song")
		return fmt.Errorf("search song %q by %q: %w", song.Title, song.Artist, err)
	}
	// Sleeping to stay under the provider's rate limiter.
	e.sleep(e.delay)

	if result == nil {
		e.log.Warn().Str("artist", song.Artist).Str("title", song.Title).Msg("Song not found")
		sum.LyricsMissing++
		if err := e.missing.AddSong(song.Title, song.Artist); err != nil {
			return fmt.Errorf("record missing song: %w", err)
		}
		if e.lookups != nil {
			e.lookups.Set(song.Artist, song.Title, "", false)
		}
		return nil
	}

	song.SetLyrics(result.Lyrics)
	sum.LyricsFound++
	if e.lookups != nil {
		e.lookups.Set(song.Artist, song.Title, result.Lyrics, true)
	}
	return nil
}
