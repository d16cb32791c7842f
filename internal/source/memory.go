package source

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// MemorySource keeps records in memory, keyed by owner and kind. Kinds that
// were never Put report nil (not loaded).
type MemorySource struct {
	mu   sync.RWMutex
	data map[string]map[string][]journal.Record
}

func NewMemorySource() *MemorySource {
	return &MemorySource{data: map[string]map[string][]journal.Record{}}
}

// Put replaces the records of one kind. Unknown kind names are accepted so
// that the classifier can reject them later.
func (m *MemorySource) Put(owner, kind string, recs []journal.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[owner] == nil {
		m.data[owner] = map[string][]journal.Record{}
	}
	m.data[owner][kind] = recs
}

func (m *MemorySource) Fetch(_ context.Context, owner string, kind journal.Kind) ([]journal.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs, ok := m.data[owner][string(kind)]
	if !ok {
		return nil, nil
	}
	out := make([]journal.Record, len(recs))
	copy(out, recs)
	return out, nil
}

func (m *MemorySource) Kinds(_ context.Context, owner string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kinds := make([]string, 0, len(m.data[owner]))
	for k := range m.data[owner] {
		kinds = append(kinds, k)
	}
	return kinds, nil
}
