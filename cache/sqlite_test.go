package cache

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockCache(t *testing.T) (*LookupCache, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS artists").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, err := NewWithDB(db, zerolog.Nop())
	require.NoError(t, err)
	return c, mock
}

func TestNewWithDBSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("disk full"))

	_, err = NewWithDB(db, zerolog.Nop())
	assert.EqualError(t, err, "disk full")
}

func TestGetArtist(t *testing.T) {
	tests := []struct {
		name      string
		rows      *sqlmock.Rows
		err       error
		wantOK    bool
		wantEntry *ArtistEntry
	}{
		{
			name:      "found",
			rows:      sqlmock.NewRows([]string{"resolved_name", "found"}).AddRow("ABBA", 1),
			wantOK:    true,
			wantEntry: &ArtistEntry{ResolvedName: "ABBA", Found: true},
		},
		{
			name:      "confirmed missing",
			rows:      sqlmock.NewRows([]string{"resolved_name", "found"}).AddRow("", 0),
			wantOK:    true,
			wantEntry: &ArtistEntry{},
		},
		{
			name: "not attempted",
			err:  sql.ErrNoRows,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, mock := newMockCache(t)

			q := mock.ExpectQuery(regexp.QuoteMeta(
				"SELECT resolved_name, found FROM artists WHERE name = ?")).
				WithArgs("Abba")
			if tc.err != nil {
				q.WillReturnError(tc.err)
			} else {
				q.WillReturnRows(tc.rows)
			}

			entry, ok := c.GetArtist("Abba")
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantEntry, entry)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetArtist(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT OR REPLACE INTO artists (name, resolved_name, found) VALUES (?, ?, ?)")).
		WithArgs("Unknown Artist", "", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c.SetArtist("Unknown Artist", "", false)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAndSetLyrics(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT OR REPLACE INTO lyrics (artist, title, lyrics, found) VALUES (?, ?, ?, ?)")).
		WithArgs("The Beatles", "Let It Be", "Let it be, let it be", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT lyrics, found FROM lyrics WHERE artist = ? AND title = ?")).
		WithArgs("The Beatles", "Let It Be").
		WillReturnRows(sqlmock.NewRows([]string{"lyrics", "found"}).AddRow("Let it be, let it be", 1))

	c.Set("The Beatles", "Let It Be", "Let it be, let it be", true)
	entry, ok := c.Get("The Beatles", "Let It Be")

	require.True(t, ok)
	assert.Equal(t, &Entry{Lyrics: "Let it be, let it be", Found: true}, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLogsWriteErrors(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectExec("INSERT OR REPLACE INTO lyrics").
		WillReturnError(errors.New("locked"))

	assert.NotPanics(t, func() { c.Set("a", "b", "", false) })
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats(t *testing.T) {
	c, mock := newMockCache(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lyrics")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lyrics WHERE found = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, found := c.Stats()
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, found)
}
