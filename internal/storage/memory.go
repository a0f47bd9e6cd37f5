package storage

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend. PutErr, when set, is returned by
// every Put without storing anything.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]Record
	PutErr  error
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: map[string]Record{}}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.records[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (b *MemoryBackend) Put(_ context.Context, key string, rec Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PutErr != nil {
		return b.PutErr
	}
	b.records[key] = rec
	return nil
}

// Set stores a raw record, bypassing PutErr.
func (b *MemoryBackend) Set(key string, rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[key] = rec
}

func (b *MemoryBackend) Close() error { return nil }
