package store

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory store for tests and throwaway sessions.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	versions map[string][]VersionEntry
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		versions: make(map[string][]VersionEntry),
	}
}

// Get retrieves the text stored under name.
func (m *Memory) Get(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.data[name]
	return text, ok, nil
}

// Put stores text under name. A changed value records a new version.
func (m *Memory) Put(name, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[name]; ok && old == text {
		return nil
	}
	m.data[name] = text
	m.versions[name] = append(m.versions[name], VersionEntry{
		Version: len(m.versions[name]) + 1,
		Value:   text,
		Ts:      time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes a name and its history.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	delete(m.versions, name)
	return nil
}

// Names returns every stored name in sorted order.
func (m *Memory) Names() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetHistory returns up to limit versions of name, newest first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.versions[name]
	var out []VersionEntry
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
