package queue

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Storage persists encoded queues by name.
//
// Load returns (nil, nil) when nothing has been stored under the name.
// Save replaces whatever was stored before.
type Storage interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, blob []byte) error
}

// MemoryStorage keeps queues in process memory. Suitable for tests and for
// hosts that do not need persistence across restarts.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[name]
	if !ok {
		return nil, nil
	}
	return slices.Clone(blob), nil
}

func (s *MemoryStorage) Save(ctx context.Context, name string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[name] = slices.Clone(blob)
	return nil
}

// Names returns the stored queue names in sorted order.
func (s *MemoryStorage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.blobs))
}
