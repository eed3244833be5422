// Package snapshot persists the cached match and tournament data as JSON
// documents that are replaced atomically on each refresh.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"matchbot/internal/model"
)

// Well-known snapshot names.
const (
	MatchesName     = "matches"
	TournamentsName = "tournaments"
)

// Store reads and writes named snapshot files under a cache directory.
// Writes go to a temp file first and are renamed over the target, so a
// concurrent reader never observes a partial document.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore creates the cache directory if needed and returns a Store.
func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Write serializes doc and atomically replaces the named snapshot.
func (s *Store) Write(name string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}

	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot %s: %w", name, err)
	}
	return nil
}

// Read returns the last successfully written match snapshot. A missing,
// unreadable, or malformed file degrades to an empty snapshot; callers
// must tolerate an empty result at any time.
func (s *Store) Read(name string) *model.Snapshot {
	var snap model.Snapshot
	if !s.readInto(name, &snap) {
		return &model.Snapshot{}
	}
	return &snap
}

// ReadTournaments returns the last written tournament snapshot, or an
// empty one under the same degradation rules as Read.
func (s *Store) ReadTournaments(name string) *model.TournamentSnapshot {
	var snap model.TournamentSnapshot
	if !s.readInto(name, &snap) {
		return &model.TournamentSnapshot{}
	}
	return &snap
}

func (s *Store) readInto(name string, dst any) bool {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("read snapshot", "name", name, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("malformed snapshot, treating as empty", "name", name, "error", err)
		return false
	}
	return true
}

// LastModified returns the mtime of the named snapshot file.
// The second return value is false when the snapshot does not exist.
func (s *Store) LastModified(name string) (time.Time, bool) {
	info, err := os.Stat(s.path(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime().UTC(), true
}
