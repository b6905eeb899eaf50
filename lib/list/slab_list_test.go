package list

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xslab/lib/slab"
)

func TestSlabList_PushFrontRemoveFront(t *testing.T) {
	l := NewSlabList[int]()
	defer l.Release()

	require.True(t, l.Empty())
	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3)
	require.EqualValues(t, 3, l.Len())

	require.Equal(t, 3, l.RemoveFront())
	require.Equal(t, 2, l.RemoveFront())
	require.Equal(t, 1, l.RemoveFront())
	require.True(t, l.Empty())
}

func TestSlabList_RemoveFrontOnEmpty(t *testing.T) {
	l := NewSlabList[int]()
	defer l.Release()

	require.Panics(t, func() {
		_ = l.RemoveFront()
	})
}

func TestSlabList_FindAndIterate(t *testing.T) {
	l := NewSlabList[int]()
	defer l.Release()

	for _, v := range []int{1, 2, 3, 4, 5} {
		l.PushFront(v)
	}

	// Head to tail: 5, 4, 3, 2, 1.
	pix := l.Head()
	collected := make([]int, 0, 5)
	for !pix.Nil() {
		v, err := l.Read(pix)
		require.NoError(t, err)
		collected = append(collected, v)
		pix, err = l.Advance(pix)
		require.NoError(t, err)
	}
	require.Equal(t, []int{5, 4, 3, 2, 1}, collected)

	found := l.Find(3)
	require.False(t, found.Nil())
	v, err := l.Read(found)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	require.True(t, l.Find(42).Nil())
}

func TestSlabList_ForEach(t *testing.T) {
	l := NewSlabList[string]()
	defer l.Release()

	require.Error(t, l.ForEach(func(idx int64, v string) error { return nil }))

	l.PushFront("c")
	l.PushFront("b")
	l.PushFront("a")
	collected := make([]string, 0, 3)
	err := l.ForEach(func(idx int64, v string) error {
		require.EqualValues(t, len(collected), idx)
		collected = append(collected, v)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, collected)
}

func TestSlabList_ClearPrivatePool(t *testing.T) {
	l := NewSlabList[int]()
	defer l.Release()

	for i := 0; i < 5; i++ {
		l.PushFront(i)
	}
	require.Positive(t, l.Pool().Stats().Chunks)

	// Private pool: one O(1) bulk release drops the whole chunk ring.
	l.Clear()
	require.True(t, l.Empty())
	require.EqualValues(t, 0, l.Pool().Stats().Chunks)
}

func TestSlabList_ClearSharedPool(t *testing.T) {
	pool := slab.NewPool[Node[int]](slab.WithPoolSlotsPerChunk(2))
	a := NewSlabListWithPool(pool)
	b := NewSlabListWithPool(pool)

	for i := 0; i < 5; i++ {
		a.PushFront(i)
		b.PushFront(10 + i)
	}
	chunksBefore := pool.Stats().Chunks
	bHead := b.Head()

	// Shared pool: a's clear vacates only a's slots, the ring survives.
	a.Clear()
	require.True(t, a.Empty())
	require.Equal(t, chunksBefore, pool.Stats().Chunks)
	require.EqualValues(t, 5, pool.Stats().LiveSlots)

	v, err := b.Read(bHead)
	require.NoError(t, err)
	require.Equal(t, 14, v)

	a.Release()
	b.Release()
	pool.Release()
	require.True(t, pool.Dead())
}

func TestSlabList_SharedPoolLifecycle(t *testing.T) {
	pool := slab.NewPool[Node[int]]() // count 1, the standalone owner
	a := NewSlabListWithPool(pool)    // count 2
	b := NewSlabListWithPool(pool)    // count 3
	require.True(t, pool.Shared())

	a.PushFront(1)
	b.PushFront(2)

	a.Release() // count 2, pool alive
	require.False(t, pool.Dead())
	require.Positive(t, pool.Stats().Chunks)

	b.Release() // count 1, private owner still holds it
	require.False(t, pool.Dead())
	require.False(t, pool.Shared())

	pool.Release() // count 0, released
	require.True(t, pool.Dead())
	require.EqualValues(t, 0, pool.Stats().Chunks)
}

func TestSlabList_ReleaseDrainsSharedNodes(t *testing.T) {
	pool := slab.NewPool[Node[int]]()
	a := NewSlabListWithPool(pool)
	b := NewSlabListWithPool(pool)

	a.PushFront(1)
	a.PushFront(2)
	b.PushFront(3)

	a.Release()
	// a's nodes were drained one by one, b's survive.
	require.EqualValues(t, 1, pool.Stats().LiveSlots)
	require.Equal(t, 3, b.RemoveFront())

	b.Release()
	pool.Release()
	require.True(t, pool.Dead())
}
