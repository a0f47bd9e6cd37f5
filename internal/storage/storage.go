// Package storage persists the entry log in a small, size-constrained
// key-value store. An Adapter encodes the collection into a single
// percent-encoded record with an expiry, and a Backend keeps the bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiliavir/headache-tracker/internal/logging"
	"github.com/Tiliavir/headache-tracker/internal/model"
)

// DefaultKey is the record key holding the entry log.
const DefaultKey = "headacheData"

// DefaultCapacity is the ceiling, in bytes, for key=value of a stored record.
// It matches the practical per-cookie limit of browsers.
const DefaultCapacity = 4096

// DefaultPath is the scope recorded alongside each record.
const DefaultPath = "/"

var (
	// ErrNotFound means no record exists for the key, or it has expired.
	ErrNotFound = errors.New("no stored data")
	// ErrCorrupt means a record exists but could not be decoded into entries.
	ErrCorrupt = errors.New("stored data is corrupt")
	// ErrCapacityExceeded means the encoded log does not fit the store.
	ErrCapacityExceeded = errors.New("stored data exceeds capacity")
	// ErrEncoding means the log could not be encoded.
	ErrEncoding = errors.New("encoding stored data failed")
)

// Record is a stored value with its cookie-style attributes.
type Record struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
	Path    string    `json:"path"`
}

// Backend is an opaque durable key-value store.
// Get returns ErrNotFound when the key has no record.
type Backend interface {
	Get(ctx context.Context, key string) (Record, error)
	Put(ctx context.Context, key string, rec Record) error
	Close() error
}

// Backend kinds accepted by OpenBackend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// BaseDir returns the root data directory (~/.headache).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".headache"), nil
}

// OpenBackend opens the backend of the given kind rooted at dir.
func OpenBackend(ctx context.Context, kind, dir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFileBackend(dir), nil
	case BackendSQLite:
		return NewSQLiteBackend(ctx, dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", kind, BackendFile, BackendSQLite)
	}
}

// Options configures an Adapter.
type Options struct {
	// Key defaults to DefaultKey.
	Key string
	// Encoding used on save; loads accept either encoding.
	Encoding Encoding
	// Capacity is the size ceiling in bytes; 0 disables the check.
	Capacity int
	// Now defaults to time.Now.
	Now func() time.Time
	// Log receives warnings about dropped records; defaults to logging.Nop.
	Log logging.Logger
}

// Adapter loads and saves the entry log through a Backend.
type Adapter struct {
	backend  Backend
	key      string
	encoding Encoding
	capacity int
	now      func() time.Time
	log      logging.Logger
}

// NewAdapter creates an Adapter over b.
func NewAdapter(b Backend, opts Options) *Adapter {
	a := &Adapter{
		backend:  b,
		key:      opts.Key,
		encoding: opts.Encoding,
		capacity: opts.Capacity,
		now:      opts.Now,
		log:      opts.Log,
	}
	if a.key == "" {
		a.key = DefaultKey
	}
	if a.encoding == "" {
		a.encoding = EncodingJSON
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = logging.Nop()
	}
	return a
}

// Save encodes entries and writes them with a one-year expiry.
// Nothing is written when the encoded record exceeds the capacity.
func (a *Adapter) Save(ctx context.Context, entries []model.Entry) error {
	if entries == nil {
		entries = []model.Entry{}
	}
	raw, err := encodeEntries(a.encoding, entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	value := escapeValue(raw)

	if size := len(a.key) + 1 + len(value); a.capacity > 0 && size > a.capacity {
		return fmt.Errorf("%w: %d entries need %d bytes, limit is %d", ErrCapacityExceeded, len(entries), size, a.capacity)
	}

	rec := Record{
		Value:   value,
		Expires: a.now().AddDate(1, 0, 0),
		Path:    DefaultPath,
	}
	if err := a.backend.Put(ctx, a.key, rec); err != nil {
		return fmt.Errorf("storage error writing %s: %w", a.key, err)
	}
	return nil
}

// Load reads and decodes the stored log.
// It returns ErrNotFound for a missing or expired record and ErrCorrupt when
// the record is not an array or holds no valid entry. Individual records
// that fail validation are dropped with a warning.
func (a *Adapter) Load(ctx context.Context) ([]model.Entry, error) {
	rec, err := a.backend.Get(ctx, a.key)
	if err != nil {
		return nil, err
	}
	if !rec.Expires.IsZero() && !a.now().Before(rec.Expires) {
		return nil, fmt.Errorf("%w: record expired at %s", ErrNotFound, rec.Expires.Format(time.RFC3339))
	}

	raw, err := unescapeValue(rec.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	entries, skipped, err := decodeEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(skipped) > 0 {
		a.log.Warn(ctx, "dropped invalid stored records", logging.Fields{
			"dropped": len(skipped),
			"kept":    len(entries),
			"first":   skipped[0],
		})
	}
	return entries, nil
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
