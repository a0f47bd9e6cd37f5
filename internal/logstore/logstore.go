// Package logstore owns the authoritative, in-memory log of headache entries
// and persists it after every mutation.
package logstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/model"
	"github.com/Tiliavir/headache-tracker/internal/storage"
)

// ErrImportInFlight is returned to writers while an import is reading its source.
var ErrImportInFlight = errors.New("an import is in progress; try again when it completes")

// Persister is the durable side of the store.
type Persister interface {
	Load(ctx context.Context) ([]model.Entry, error)
	Save(ctx context.Context, entries []model.Entry) error
}

// DurabilityError reports that a mutation was applied in memory but could not
// be persisted. The in-memory state is not rolled back.
type DurabilityError struct {
	Err error
}

func (e *DurabilityError) Error() string {
	return fmt.Sprintf("there was an error saving your data (%v). Please export your data to CSV as a backup", e.Err)
}

func (e *DurabilityError) Unwrap() error { return e.Err }

// Store holds the entry collection. It is safe for concurrent use; imports
// are single-flight and block other writers for their duration.
type Store struct {
	mu        sync.Mutex
	entries   []model.Entry
	importing bool

	persist Persister
	log     logging.Logger
}

// New returns an empty Store over p. Use Open to start from persisted data.
func New(p Persister, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{persist: p, log: log, entries: []model.Entry{}}
}

// Open creates a Store and loads the persisted collection.
// Load never fails; see Store.Load.
func Open(ctx context.Context, p Persister, log logging.Logger) *Store {
	s := New(p, log)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory collection with the persisted one.
// Missing, expired or corrupt data yields an empty collection; the cause is
// logged and never returned.
func (s *Store) Load(ctx context.Context) []model.Entry {
	entries, err := s.persist.Load(ctx)
	switch {
	case err == nil:
		s.log.Info(ctx, "loaded entries", logging.Fields{"entries": len(entries)})
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info(ctx, "no existing data found, starting fresh", nil)
		entries = nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.Warn(ctx, "invalid stored data, starting fresh", logging.Fields{"cause": err})
		entries = nil
	default:
		s.log.Error(ctx, fmt.Errorf("loading stored data: %w", err), logging.Fields{"fallback": "empty"})
		entries = nil
	}
	if entries == nil {
		entries = []model.Entry{}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return cloneAll(entries)
}

// Validate checks e against the data model.
func (s *Store) Validate(e model.Entry) error {
	return e.Validate()
}

// AddEntry validates e, appends it and persists the collection.
// A persistence failure is returned as *DurabilityError; e stays in memory.
func (s *Store) AddEntry(ctx context.Context, e model.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importing {
		return ErrImportInFlight
	}
	s.entries = append(s.entries, e.Clone())
	return s.saveLocked(ctx)
}

// ReplaceAll validates every entry and, if all pass, replaces the collection
// and persists it.
func (s *Store) ReplaceAll(ctx context.Context, entries []model.Entry) error {
	if err := validateAll(entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importing {
		return ErrImportInFlight
	}
	s.entries = cloneAll(entries)
	return s.saveLocked(ctx)
}

// Snapshot returns a deep copy of the collection in insertion order.
func (s *Store) Snapshot() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// DecodeFunc turns an import source into entries plus a decoder-specific
// report.
type DecodeFunc[R any] func(r io.Reader) ([]model.Entry, R, error)

// Import reads src to completion, decodes it and replaces the collection.
// While src is being read other writers get ErrImportInFlight and the
// collection keeps its prior state. A decode error leaves it unchanged.
func Import[R any](ctx context.Context, s *Store, src io.Reader, decode DecodeFunc[R]) (R, error) {
	var report R
	if err := s.beginImport(); err != nil {
		return report, err
	}
	defer s.endImport()

	entries, report, err := decode(src)
	if err != nil {
		return report, fmt.Errorf("import: %w", err)
	}
	if err := validateAll(entries); err != nil {
		return report, fmt.Errorf("import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneAll(entries)
	s.log.Info(ctx, "imported entries", logging.Fields{"entries": len(entries)})
	return report, s.saveLocked(ctx)
}

func (s *Store) beginImport() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importing {
		return ErrImportInFlight
	}
	s.importing = true
	return nil
}

func (s *Store) endImport() {
	s.mu.Lock()
	s.importing = false
	s.mu.Unlock()
}

// saveLocked persists the collection; s.mu must be held.
func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.persist.Save(ctx, s.entries); err != nil {
		s.log.Error(ctx, fmt.Errorf("saving data: %w", err), logging.Fields{"entries": len(s.entries)})
		return &DurabilityError{Err: err}
	}
	s.log.Debug(ctx, "saved entries", logging.Fields{"entries": len(s.entries)})
	return nil
}

func validateAll(entries []model.Entry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

func cloneAll(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
