package mixer

import (
	"maps"
	"slices"

	"github.com/shinra-electric/rawgl-mixer/internal/backend"
)

// preloadCache holds decoded AIFF sounds by resource number.
type preloadCache struct {
	chunks map[int]*backend.Chunk
}

func newPreloadCache() *preloadCache {
	return &preloadCache{chunks: make(map[int]*backend.Chunk)}
}

func (p *preloadCache) has(num int) bool {
	_, ok := p.chunks[num]
	return ok
}

func (p *preloadCache) get(num int) (*backend.Chunk, bool) {
	c, ok := p.chunks[num]
	return c, ok
}

func (p *preloadCache) put(num int, c *backend.Chunk) {
	p.chunks[num] = c
}

func (p *preloadCache) len() int {
	return len(p.chunks)
}

// flush empties the cache, calling fn for each number in ascending order.
func (p *preloadCache) flush(fn func(num int)) {
	for _, num := range slices.Sorted(maps.Keys(p.chunks)) {
		if fn != nil {
			fn(num)
		}
		delete(p.chunks, num)
	}
}
