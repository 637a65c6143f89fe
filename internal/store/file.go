package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/nhle/sadhana/internal/model"
)

// FileStore implements Store as one JSON file per date under a directory,
// laid out as <dir>/<year>/<month>/<date>.json. Writes go through a temp
// directory and a rename, so a record is never half written.
type FileStore struct {
	d *diskv.Diskv
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{d: diskv.New(diskv.Options{
		BasePath:          dir,
		TempDir:           filepath.Join(dir, ".tmp"),
		AdvancedTransform: dayToPath,
		InverseTransform:  pathToDay,
		CacheSizeMax:      256 * 1024,
	})}
}

// dayToPath maps "2026-01-02" to 2026/01/2026-01-02.json.
func dayToPath(key string) *diskv.PathKey {
	parts := strings.SplitN(key, "-", 3)
	pk := &diskv.PathKey{FileName: key + ".json"}
	if len(parts) == 3 {
		pk.Path = parts[:2]
	}
	return pk
}

func pathToDay(pk *diskv.PathKey) string {
	return strings.TrimSuffix(pk.FileName, ".json")
}

// FetchByDate reads the file for day.
func (s *FileStore) FetchByDate(_ context.Context, day model.Day) (model.SadhanaLog, error) {
	key := day.String()
	if !s.d.Has(key) {
		return model.SadhanaLog{}, ErrNotFound
	}

	data, err := s.d.Read(key)
	if err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: err}
	}

	var log model.SadhanaLog
	if err := json.Unmarshal(data, &log); err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: err}
	}
	return log, nil
}

// UpsertByDate replaces the file for the log's date.
func (s *FileStore) UpsertByDate(_ context.Context, log model.SadhanaLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return &Error{Op: "upsert", Day: log.Date, Err: err}
	}
	if err := s.d.Write(log.Date.String(), data); err != nil {
		return &Error{Op: "upsert", Day: log.Date, Err: err}
	}
	return nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}
