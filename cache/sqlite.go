package cache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS artists (
	name          TEXT NOT NULL PRIMARY KEY,
	resolved_name TEXT,
	found         INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS lyrics (
	artist     TEXT NOT NULL,
	title      TEXT NOT NULL,
	lyrics     TEXT,
	found      INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (artist, title)
)`

// LookupCache remembers the outcome of every artist and song lookup so an
// interrupted enrichment pass can resume. A key that is absent has not been
// attempted yet.
type LookupCache struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

type ArtistEntry struct {
	ResolvedName string
	Found        bool
}

type Entry struct {
	Lyrics string
	Found  bool
}

func New(dbPath string, log zerolog.Logger) (*LookupCache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, err
	}

	c, err := NewWithDB(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("lookup cache initialized")
	return c, nil
}

// NewWithDB wraps an open database and makes sure the schema exists.
func NewWithDB(db *sql.DB, log zerolog.Logger) (*LookupCache, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &LookupCache{db: db, log: log}, nil
}

func (c *LookupCache) GetArtist(name string) (*ArtistEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var resolved sql.NullString
	var found int

	err := c.db.QueryRow(
		"SELECT resolved_name, found FROM artists WHERE name = ?", name,
	).Scan(&resolved, &found)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn().Err(err).Str("artist", name).Msg("read error")
		}
		return nil, false
	}

	return &ArtistEntry{ResolvedName: resolved.String, Found: found == 1}, true
}

func (c *LookupCache) SetArtist(name, resolvedName string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO artists (name, resolved_name, found) VALUES (?, ?, ?)`,
		name, resolvedName, boolToInt(found),
	)
	if err != nil {
		c.log.Error().Err(err).Str("artist", name).Msg("write error")
	}
}

func (c *LookupCache) Get(artist, title string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var lyrics sql.NullString
	var found int

	err := c.db.QueryRow(
		"SELECT lyrics, found FROM lyrics WHERE artist = ? AND title = ?",
		artist, title,
	).Scan(&lyrics, &found)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.Warn().Err(err).Str("artist", artist).Str("title", title).Msg("read error")
		}
		return nil, false
	}

	return &Entry{Lyrics: lyrics.String, Found: found == 1}, true
}

func (c *LookupCache) Set(artist, title, lyrics string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO lyrics (artist, title, lyrics, found) VALUES (?, ?, ?, ?)`,
		artist, title, lyrics, boolToInt(found),
	)
	if err != nil {
		c.log.Error().Err(err).Str("artist", artist).Str("title", title).Msg("write error")
	}
}

func (c *LookupCache) Stats() (total int, found int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.db.QueryRow("SELECT COUNT(*) FROM lyrics").Scan(&total)
	c.db.QueryRow("SELECT COUNT(*) FROM lyrics WHERE found = 1").Scan(&found)
	return
}

func (c *LookupCache) Close() error {
	return c.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
