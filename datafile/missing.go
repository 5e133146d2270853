package datafile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"hot100-lyrics/models"
)

// MissingLog appends unresolved lookups to a JSON document, rewriting the
// whole file after every call. Entries are never deduplicated.
type MissingLog struct {
	path string
}

func NewMissingLog(path string) *MissingLog {
	return &MissingLog{path: path}
}

func (m *MissingLog) AddArtist(name string) error {
	return m.update(func(info *models.MissingInfo) {
		info.Artists = append(info.Artists, name)
	})
}

func (m *MissingLog) AddSong(title, artist string) error {
	return m.update(func(info *models.MissingInfo) {
		info.Songs = append(info.Songs, models.MissingSong{Title: title, Artist: artist})
	})
}

func (m *MissingLog) Load() (*models.MissingInfo, error) {
	info := &models.MissingInfo{Artists: []string{}, Songs: []models.MissingSong{}}

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return info, nil
	}

	if err := json.Unmarshal(data, info); err != nil {
		return nil, err
	}
	if info.Artists == nil {
		info.Artists = []string{}
	}
	if info.Songs == nil {
		info.Songs = []models.MissingSong{}
	}
	return info, nil
}

func (m *MissingLog) update(fn func(*models.MissingInfo)) error {
	info, err := m.Load()
	if err != nil {
		return err
	}
	fn(info)

	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0644)
}
