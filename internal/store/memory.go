package store

import (
	"sort"
	"sync"

	"github.com/kyr04i/depressing/internal/domain"
)

// Memory implements Repo with a mutex-guarded map. Contents are lost on restart.
type Memory struct {
	mu        sync.RWMutex
	deadlines map[string]domain.Deadline
}

// NewMemory returns an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{deadlines: make(map[string]domain.Deadline)}
}

// Set inserts d or replaces the record with the same name.
// The stored value is a copy; later changes to d are not observed.
func (m *Memory) Set(d domain.Deadline) {
	c := d.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines[c.Name] = c
}

// Delete removes the named record and reports whether it existed.
func (m *Memory) Delete(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deadlines[name]; !ok {
		return false
	}
	delete(m.deadlines, name)
	return true
}

// Get returns a copy of the named record.
func (m *Memory) Get(name string) (domain.Deadline, bool) {
	m.mu.RLock()
	d, ok := m.deadlines[name]
	m.mu.RUnlock()
	if !ok {
		return domain.Deadline{}, false
	}
	return d.Clone(), true
}

// Snapshot returns independent copies of all records, sorted by name.
// The copies are taken under a single read lock, so they reflect one
// coherent state of the registry.
func (m *Memory) Snapshot() []domain.Deadline {
	m.mu.RLock()
	res := make([]domain.Deadline, 0, len(m.deadlines))
	for _, d := range m.deadlines {
		res = append(res, d.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Len returns the number of records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deadlines)
}
