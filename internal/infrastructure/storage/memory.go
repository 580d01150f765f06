// Package storage provides the durable key/value backends behind history.
package storage

import (
	"context"
	"sync"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Memory keeps values in process memory. A positive quota caps the total
// stored bytes, mirroring a browser storage limit.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int
}

// NewMemory returns an empty store; quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{values: make(map[string][]byte), quota: quota}
}

// Get implements ports.KeyValueStore.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements ports.KeyValueStore.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		used := len(value)
		for k, v := range m.values {
			if k != key {
				used += len(v)
			}
		}
		if used > m.quota {
			return domain.ErrQuotaExceeded
		}
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements ports.KeyValueStore.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close implements ports.KeyValueStore.
func (m *Memory) Close() error {
	return nil
}

var _ ports.KeyValueStore = (*Memory)(nil)
