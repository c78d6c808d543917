package cas

import (
	"bytes"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[Hash][]byte),
	}
}

func (m *MemoryStore) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryStore) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

func (m *MemoryStore) Put(item Hashable) (Hash, error) {
	var buf bytes.Buffer
	err := item.Serialize(&buf)
	if err != nil {
		return 0, err
	}
	data := buf.Bytes()
	h := HashBytes(data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[h] = data
	return h, nil
}

// Len reports the number of distinct entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
