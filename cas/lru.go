package cas

import (
	"bytes"
	"container/list"
	"fmt"
	"sync"

	"github.com/lumen-dev/lumen/vm"
)

// LRUCache is a CAS wrapper that keeps recently used entries, and the
// programs decoded from them, in memory using LRU eviction.
type LRUCache struct {
	mu         sync.Mutex
	underlying CAS
	cache      map[Hash]*list.Element
	evictList  *list.List
	maxSize    int
	hits       int
	misses     int
}

type cacheEntry struct {
	hash    Hash
	value   []byte
	program *vm.Program
}

// NewLRUCache creates a new LRU-cached CAS wrapper
// maxSize is the maximum number of entries to cache (0 or negative means the default)
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000 // Default cache size
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

// Put stores an item in the underlying CAS
func (l *LRUCache) Put(item Hashable) (Hash, error) {
	return l.underlying.Put(item)
}

// Has checks if the hash exists in underlying CAS
func (l *LRUCache) Has(hash Hash) bool {
	return l.underlying.Has(hash)
}

func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, err := l.lookup(h)
	if err != nil || entry == nil {
		return false, nil, err
	}
	return true, entry.value, nil
}

// Program returns the decoded program stored under h, decoding it at most
// once while it stays cached.
func (l *LRUCache) Program(h Hash) (*vm.Program, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, err := l.lookup(h)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	if entry.program == nil {
		p, err := vm.DecodeProgram(bytes.NewReader(entry.value))
		if err != nil {
			return nil, fmt.Errorf("deserializing %s: %w", h, err)
		}
		entry.program = p
	}
	return entry.program, nil
}

// lookup finds h in the cache or the underlying store. A nil entry with a
// nil error means the hash is unknown.
func (l *LRUCache) lookup(h Hash) (*cacheEntry, error) {
	if elem, ok := l.cache[h]; ok {
		l.hits++
		l.evictList.MoveToFront(elem)
		return elem.Value.(*cacheEntry), nil
	}
	l.misses++

	has, data, err := l.underlying.getValue(h)
	if err != nil || !has {
		return nil, err
	}
	return l.addToCache(h, data), nil
}

// addToCache adds an entry to the cache and evicts oldest if necessary
func (l *LRUCache) addToCache(hash Hash, value []byte) *cacheEntry {
	entry := &cacheEntry{
		hash:  hash,
		value: value,
	}
	elem := l.evictList.PushFront(entry)
	l.cache[hash] = elem

	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
	return entry
}

// evictOldest removes the least recently used entry from cache
func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		entry := elem.Value.(*cacheEntry)
		delete(l.cache, entry.hash)
	}
}

// CacheStats returns cache statistics for monitoring
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

// Stats returns current cache statistics
func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
		Hits:    l.hits,
		Misses:  l.misses,
	}
}
