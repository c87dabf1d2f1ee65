package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tinyclock/gosched/internal/pool"
)

func TestSelectDefault(t *testing.T) {
	a := pool.Select[int](false)
	buf := a.Get(8)
	assert.Len(t, buf, 0)
	assert.GreaterOrEqual(t, cap(buf), 8)
	a.Put(buf)
}

func TestArenaRecycles(t *testing.T) {
	a := pool.NewArena[int](4)
	buf := a.Get(4)
	buf = append(buf, 1, 2, 3)
	a.Put(buf)

	again := a.Get(4)
	assert.Len(t, again, 0)
	assert.GreaterOrEqual(t, cap(again), 4)
}

func TestArenaGrowsBeyondCapacityHint(t *testing.T) {
	a := pool.NewArena[int](2)
	buf := a.Get(64)
	assert.GreaterOrEqual(t, cap(buf), 64)
}

func TestSelectPSRAMReturnsArena(t *testing.T) {
	a := pool.Select[string](true)
	_, ok := a.(*pool.Arena[string])
	assert.True(t, ok, "usePSRAM=true must select an Arena allocator")
}
