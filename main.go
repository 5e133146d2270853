package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hot100-lyrics/cache"
	"hot100-lyrics/config"
	"hot100-lyrics/datafile"
	"hot100-lyrics/logging"
	"hot100-lyrics/pipeline"
	"hot100-lyrics/services"
)

func main() {
	cfg := config.Load()

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	charts := services.NewBillboard(cfg.ChartName, logging.Component(logger, "billboard"))

	newEnricher := func() (pipeline.Enricher, func(), error) {
		if err := cfg.RequireToken(); err != nil {
			return nil, nil, err
		}

		lookups, err := cache.New(cfg.LookupDB, logging.Component(logger, "cache"))
		if err != nil {
			return nil, nil, err
		}
		total, found := lookups.Stats()
		logger.Info().Int("total", total).Int("found", found).Msg("lookup cache loaded")

		genius := services.NewGenius(cfg.GeniusToken, false, logging.Component(logger, "genius"))
		enricher := services.NewEnricher(
			genius,
			datafile.NewMissingLog(cfg.MissingFile),
			lookups,
			cfg.LyricsDelay,
			logging.Component(logger, "lyrics"),
		)
		return enricher, func() { lookups.Close() }, nil
	}

	p := pipeline.New(cfg, charts, newEnricher, logging.Component(logger, "pipeline"))
	if _, err := p.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run failed")
		stop()
		os.Exit(1)
	}
}
