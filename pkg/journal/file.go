package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	pomio "github.com/matzehuels/pomedit/pkg/io"
)

// FileStore keeps one JSON file per entry.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the journal directory. An empty dir means
// $XDG_STATE_HOME/pomedit/journal, or ~/.local/state/pomedit/journal.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the default journal directory.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomedit", "journal"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "pomedit", "journal"), nil
}

// Path returns the journal directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) entryPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Append(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := pomio.WriteFileAtomic(s.entryPath(e.ID), data); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filepath.Base(id) != id || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.read(s.entryPath(id))
}

func (s *FileStore) List(ctx context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list()
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove entry: %w", err)
	}
	return nil
}

func (s *FileStore) Prune(ctx context.Context, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.list()
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := max(keep, 0); i < len(entries); i++ {
		if err := os.Remove(s.entryPath(entries[i].ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) list() ([]*Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read journal dir: %w", err)
	}
	var entries []*Entry
	for _, d := range dirents {
		if d.IsDir() || filepath.Ext(d.Name()) != ".json" {
			continue
		}
		e, err := s.read(filepath.Join(s.dir, d.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *FileStore) read(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse entry: %w", err)
	}
	return &e, nil
}

var _ Store = (*FileStore)(nil)
