package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"hot100-lyrics/config"
	"hot100-lyrics/datafile"
	"hot100-lyrics/models"
	"hot100-lyrics/services"
)

type Enricher interface {
	Enrich(ctx context.Context, set *models.SongSet) (*services.EnrichSummary, error)
}

// EnricherFactory is called only when lyrics have to be fetched. The
// returned func releases whatever the enricher holds open.
type EnricherFactory func() (Enricher, func(), error)

type Result struct {
	Songs       int
	FromCache   bool
	Enriched    bool
	Occurrences map[int]int
}

type Pipeline struct {
	cfg         *config.Config
	charts      services.ChartSource
	newEnricher EnricherFactory
	log         zerolog.Logger
}

func New(cfg *config.Config, charts services.ChartSource, newEnricher EnricherFactory, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		charts:      charts,
		newEnricher: newEnricher,
		log:         log,
	}
}

// Run loads or fetches the songs, fetches lyrics when none are known yet,
// and writes the per-year pattern counts.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	set, fromCache, err := p.loadSongs(ctx)
	if err != nil {
		return nil, err
	}
	res.Songs = set.Len()
	res.FromCache = fromCache

	// Only fetch lyrics if the data file has none yet.
	if !set.AnyLyrics() {
		if err := p.enrich(ctx, set); err != nil {
			return nil, err
		}
		res.Enriched = true
	} else {
		p.log.Info().Msg("lyrics already present, skipping enrichment")
	}

	counts, err := services.CountByYear(set.Songs(), p.cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if err := datafile.WriteResults(p.cfg.ResultsFile, counts); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}
	res.Occurrences = counts

	p.log.Info().
		Str("pattern", p.cfg.Pattern).
		Int("years", len(counts)).
		Str("path", p.cfg.ResultsFile).
		Msg("results saved")
	return res, nil
}

func (p *Pipeline) loadSongs(ctx context.Context) (*models.SongSet, bool, error) {
	if datafile.Exists(p.cfg.SongsFile) {
		p.log.Info().Str("path", p.cfg.SongsFile).Msg("Fetching songs from data file")
		set, err := datafile.ReadSongs(p.cfg.SongsFile)
		if err != nil {
			return nil, false, fmt.Errorf("read %s: %w", p.cfg.SongsFile, err)
		}
		p.log.Info().Int("songs", set.Len()).Msg("Finished fetching")
		return set, true, nil
	}

	collector := services.NewCollector(p.charts, p.cfg.ChartDelay, p.log)
	set, err := collector.FetchAll(ctx, p.cfg.StartDate, p.cfg.EndDate)
	if err != nil {
		return nil, false, err
	}
	if err := p.save(set); err != nil {
		return nil, false, err
	}
	return set, false, nil
}

func (p *Pipeline) enrich(ctx context.Context, set *models.SongSet) error {
	enricher, release, err := p.newEnricher()
	if err != nil {
		return err
	}
	defer release()

	if _, err := enricher.Enrich(ctx, set); err != nil {
		return err
	}
	return p.save(set)
}

func (p *Pipeline) save(set *models.SongSet) error {
	p.log.Info().Int("songs", set.Len()).Str("path", p.cfg.SongsFile).Msg("Saving songs to data file")
	if err := datafile.WriteSongs(p.cfg.SongsFile, set); err != nil {
		return fmt.Errorf("write %s: %w", p.cfg.SongsFile, err)
	}
	return nil
}
