// Package store persists snapshots as one file each under a snapshots directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/renameio/v2"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
)

// Entry describes a persisted snapshot without decoding it.
type Entry struct {
	Path       string
	Name       string
	Source     string
	CapturedAt time.Time
	Size       int64
}

type Store struct {
	dir    string
	logger hclog.Logger
}

func New(dir string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{dir: filepath.Clean(dir), logger: logger.Named("store")}
}

func (s *Store) Dir() string { return s.dir }

// Persist writes snap into the directory and returns its path. The file appears
// complete or not at all.
func (s *Store) Persist(snap *snapshot.Snapshot) (string, error) {
	data, err := encode(snap)
	if err != nil {
		return "", domain.ErrStorage(err, "encode snapshot %s", snap.ID())
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domain.ErrStorage(err, "create snapshot directory %s", s.dir)
	}

	path := filepath.Join(s.dir, FileName(snap.Meta()))
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", domain.ErrStorage(err, "write snapshot %s", path)
	}
	s.logger.Info("snapshot saved", "path", path, "bytes", len(data))
	return path, nil
}

// List returns the persisted snapshots in capture order. A missing directory
// holds no snapshots.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrStorage(err, "read snapshot directory %s", s.dir)
	}

	var entries []Entry
	for _, de := range dirents {
		if !de.Type().IsRegular() {
			continue
		}
		capturedAt, src, ok := parseName(de.Name())
		if !ok {
			continue
		}
		e := Entry{
			Path:       filepath.Join(s.dir, de.Name()),
			Name:       de.Name(),
			Source:     src,
			CapturedAt: capturedAt,
		}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CapturedAt.Equal(entries[j].CapturedAt) {
			return entries[i].CapturedAt.Before(entries[j].CapturedAt)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Load decodes the snapshot stored at path.
func (s *Store) Load(path string) (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrStorage(err, "read snapshot %s", path)
	}
	snap, err := decode(data)
	if err != nil {
		return nil, domain.ErrCorruptSnapshot(path, err, "cannot decode")
	}
	return snap, nil
}

// LoadAll decodes every listed snapshot. Files that fail are skipped and reported
// together in the returned error; the snapshots that did load are still returned.
func (s *Store) LoadAll() ([]*snapshot.Snapshot, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	var (
		snaps []*snapshot.Snapshot
		errs  error
	)
	for _, e := range entries {
		snap, err := s.Load(e.Path)
		if err != nil {
			s.logger.Warn("skipping snapshot", "path", e.Path, "error", err)
			errs = multierr.Append(errs, err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, errs
}

// DeleteAll removes every snapshot file directly inside the directory and returns
// how many were removed. Files not following the naming convention, directories and
// anything outside the directory are left alone. All failures are collected into a
// single *domain.StorageError.
func (s *Store) DeleteAll() (int, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}

	var (
		deleted int
		errs    error
	)
	for _, e := range entries {
		if filepath.Dir(e.Path) != s.dir {
			errs = multierr.Append(errs, fmt.Errorf("refusing to remove %s outside %s", e.Path, s.dir))
			continue
		}
		if err := os.Remove(e.Path); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", e.Name, err))
			continue
		}
		deleted++
	}
	s.logger.Info("snapshots deleted", "dir", s.dir, "deleted", deleted, "failed", len(multierr.Errors(errs)))
	if errs != nil {
		return deleted, domain.ErrStorage(errs, "%d of %d snapshots could not be deleted",
			len(multierr.Errors(errs)), len(entries))
	}
	return deleted, nil
}
