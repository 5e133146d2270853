package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hot100-lyrics/models"
)

// ErrStalledCursor means the provider keeps confirming a week at or before
// one already fetched, which would loop forever.
var ErrStalledCursor = errors.New("chart cursor did not advance")

type ChartSource interface {
	FetchWeek(ctx context.Context, date time.Time) (models.ChartSnapshot, error)
}

// Collector walks the chart week by week and merges every entry into one
// song set.
type Collector struct {
	source ChartSource
	delay  time.Duration
	sleep  func(time.Duration)
	log    zerolog.Logger
}

func NewCollector(source ChartSource, delay time.Duration, log zerolog.Logger) *Collector {
	return &Collector{
		source: source,
		delay:  delay,
		sleep:  time.Sleep,
		log:    log,
	}
}

// FetchAll fetches every week from start to end inclusive. The cursor always
// continues from the provider-confirmed date.
func (c *Collector) FetchAll(ctx context.Context, start, end time.Time) (*models.SongSet, error) {
	all := models.NewSongSet()
	date := models.TruncateDay(start)
	end = models.TruncateDay(end)

	weeks := 0
	for !date.After(end) {
		c.log.Info().Str("week", models.FormatDate(date)).Msg("Fetching chart")

		snap, err := c.source.FetchWeek(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("fetch chart for %s: %w", models.FormatDate(date), err)
		}

		confirmed := models.TruncateDay(snap.Date)
		next := confirmed.AddDate(0, 0, 7)
		if !next.After(date) {
			return nil, fmt.Errorf("%w: requested %s, provider confirmed %s",
				ErrStalledCursor, models.FormatDate(date), models.FormatDate(confirmed))
		}

		added := MergeSnapshot(all, snap)
		weeks++

		c.log.Info().
			Str("week", models.FormatDate(confirmed)).
			Int("entries", len(snap.Entries)).
			Int("new_songs", added).
			Int("total_songs", all.Len()).
			Msg("Fetched")

		// Sleeping to stay under the provider's rate limiter.
		c.sleep(c.delay)
		date = next
	}

	c.log.Info().Int("weeks", weeks).Int("songs", all.Len()).Msg("all charts fetched")
	return all, nil
}

// MergeSnapshot adds one week to the set and returns how many songs were new.
func MergeSnapshot(all *models.SongSet, snap models.ChartSnapshot) int {
	before := all.Len()
	for _, e := range snap.Entries {
		all.Merge(models.NewSong(e.Title, e.Artist, nil, snap.Date))
	}
	return all.Len() - before
}
