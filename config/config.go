package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	ChartName = "hot-100"
	Pattern   = "love"

	SongsFile   = "all_songs.csv"
	MissingFile = "missing_info.json"
	ResultsFile = "results.csv"
	LookupDB    = "lookup_cache.db"

	ChartDelay  = 10 * time.Second
	LyricsDelay = 10 * time.Second
)

var (
	// First week the Hot 100 is available.
	StartDate = time.Date(1958, time.August, 4, 0, 0, 0, 0, time.UTC)
	EndDate   = time.Date(2020, time.May, 23, 0, 0, 0, 0, time.UTC)
)

var ErrMissingToken = errors.New("GENIUS_ACCESS_TOKEN is required to fetch lyrics")

type Config struct {
	GeniusToken string
	LogLevel    string
	LogFormat   string

	ChartName string
	StartDate time.Time
	EndDate   time.Time
	Pattern   string

	SongsFile   string
	MissingFile string
	ResultsFile string
	LookupDB    string

	ChartDelay  time.Duration
	LyricsDelay time.Duration
}

func Load() *Config {
	// A missing .env is fine; real env vars win over the file.
	_ = godotenv.Load(".env")

	return &Config{
		GeniusToken: getEnv("GENIUS_ACCESS_TOKEN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),

		ChartName: ChartName,
		StartDate: StartDate,
		EndDate:   EndDate,
		Pattern:   Pattern,

		SongsFile:   SongsFile,
		MissingFile: MissingFile,
		ResultsFile: ResultsFile,
		LookupDB:    LookupDB,

		ChartDelay:  ChartDelay,
		LyricsDelay: LyricsDelay,
	}
}

// RequireToken is checked only when lyrics actually need fetching.
func (c *Config) RequireToken() error {
	if c.GeniusToken == "" {
		return ErrMissingToken
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
