package storage

import (
	"context"
	"sync"
)

// MemoryImageStore keeps images in process; used when S3 is not configured.
type MemoryImageStore struct {
	mu     sync.RWMutex
	images map[string][]byte
}

var _ ImageStore = (*MemoryImageStore)(nil)

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: make(map[string][]byte)}
}

func (m *MemoryImageStore) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryImageStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, name)
	return nil
}

func (m *MemoryImageStore) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.images[name]
	return b, ok
}
