// Package journal records the files pomedit rewrites so that an edit can be
// undone.
//
// Every applied modification becomes one [Entry] holding, per file, the
// bytes before the edit and a hash of the bytes written. [Undo] restores the
// originals, refusing when a file changed since pomedit wrote it.
//
//	store, err := journal.NewFileStore("")  // ~/.local/state/pomedit/journal
//	entry := journal.New("add", "pom.xml", "junit:junit:4.13.2")
//	entry.Add("pom.xml", before, after)
//	store.Append(ctx, entry)
//
//	restored, err := journal.Undo(ctx, store, "", false)  // latest entry
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pomedit/pkg/cache"
	pomio "github.com/matzehuels/pomedit/pkg/io"
)

var (
	// ErrNotFound is returned when no entry matches.
	ErrNotFound = errors.New("journal entry not found")

	// ErrConflict is returned by Undo when a file no longer holds the bytes
	// pomedit wrote.
	ErrConflict = errors.New("file changed since it was written")
)

// File is one rewritten file.
type File struct {
	Path     string `json:"path"`
	Original []byte `json:"original"`
	Written  string `json:"written_sha256"`
}

// Entry is one applied modification.
type Entry struct {
	ID         string    `json:"id"`
	Op         string    `json:"op"`
	Target     string    `json:"target"`
	Coordinate string    `json:"coordinate,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Files      []File    `json:"files"`
}

// New starts an entry with a fresh id.
func New(op, target, coordinate string) *Entry {
	return &Entry{
		ID:         uuid.NewString(),
		Op:         op,
		Target:     target,
		Coordinate: coordinate,
		CreatedAt:  time.Now().UTC(),
	}
}

// Add records that path held original and is about to hold written.
func (e *Entry) Add(path string, original, written []byte) {
	e.Files = append(e.Files, File{
		Path:     path,
		Original: original,
		Written:  cache.Hash(written),
	})
}

// Store persists entries.
type Store interface {
	Append(ctx context.Context, e *Entry) error

	// Get returns the entry with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]*Entry, error)

	Delete(ctx context.Context, id string) error

	// Prune keeps the newest keep entries and deletes the rest.
	Prune(ctx context.Context, keep int) (int, error)
}

// Latest returns the newest entry, or ErrNotFound when the journal is empty.
func Latest(ctx context.Context, s Store) (*Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries[0], nil
}

// Undo restores the files of entry id (the newest entry when id is empty)
// and removes it from the journal. Unless force is set, every file must
// still hold the bytes that were written; otherwise nothing is restored.
func Undo(ctx context.Context, s Store, id string, force bool) (*Entry, error) {
	var (
		e   *Entry
		err error
	)
	if id == "" {
		e, err = Latest(ctx, s)
	} else {
		e, err = s.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if !force {
		for _, f := range e.Files {
			cur, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Path, err)
			}
			if cache.Hash(cur) != f.Written {
				return nil, fmt.Errorf("%w: %s", ErrConflict, f.Path)
			}
		}
	}

	for _, f := range e.Files {
		if err := pomio.WriteFileAtomic(f.Path, f.Original); err != nil {
			return nil, fmt.Errorf("restore %s: %w", f.Path, err)
		}
	}
	if err := s.Delete(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}
