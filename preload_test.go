package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinra-electric/rawgl-mixer/internal/backend"
)

func TestPreloadCache(t *testing.T) {
	p := newPreloadCache()
	assert.False(t, p.has(3))

	c := &backend.Chunk{Samples: []int16{1, 2}}
	p.put(3, c)
	p.put(1, c)
	p.put(2, c)
	assert.True(t, p.has(3))
	got, ok := p.get(3)
	assert.True(t, ok)
	assert.Same(t, c, got)

	var order []int
	p.flush(func(num int) { order = append(order, num) })
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, p.len())

	p.put(4, c)
	p.flush(nil)
	_, ok = p.get(4)
	assert.False(t, ok)
}
