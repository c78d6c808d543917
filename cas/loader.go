package cas

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
)

// CachingLoader wraps a vm.Loader. Sources with identical bytes are parsed
// once; later loads come back from the cache.
type CachingLoader struct {
	mu      sync.Mutex
	next    vm.Loader
	store   *LRUCache
	sources map[Hash]Hash
}

func NewCachingLoader(next vm.Loader, store CAS, maxSize int) *CachingLoader {
	return &CachingLoader{
		next:    next,
		store:   NewLRUCache(store, maxSize),
		sources: make(map[Hash]Hash),
	}
}

func (c *CachingLoader) Load(name string, r io.Reader) (*vm.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	key := HashBytes(data)

	c.mu.Lock()
	prog, ok := c.sources[key]
	c.mu.Unlock()
	if ok {
		p, err := c.store.Program(prog)
		if err == nil {
			log.Debug().Str("source", name).Stringer("hash", prog).Msg("Program cache hit")
			return p, nil
		}
		log.Warn().Err(err).Str("source", name).Msg("Cached program unavailable, reloading")
	}

	p, err := c.next.Load(name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	h, err := c.store.Put(&Program{p})
	if err != nil {
		return nil, fmt.Errorf("storing %s: %w", name, err)
	}

	c.mu.Lock()
	c.sources[key] = h
	c.mu.Unlock()
	log.Debug().Str("source", name).Stringer("hash", h).Msg("Program cached")
	return p, nil
}

// Stats reports the decoded-program cache.
func (c *CachingLoader) Stats() CacheStats {
	return c.store.Stats()
}
