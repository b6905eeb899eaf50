package slab

import (
	"unsafe"
)

// chunk is a contiguous block of slots obtained in one growth step.
// Chunks are singly linked into a circular ring anchored at the pool's
// tail pointer, so splicing after the tail is O(1) without a head.
type chunk[T any] struct {
	next  *chunk[T]
	slots []Slot[T]
}

func newChunk[T any](capacity int) *chunk[T] {
	if capacity <= 0 {
		panic("[slab] chunk with non-positive capacity")
	}
	c := &chunk[T]{
		slots: make([]Slot[T], capacity),
	}
	c.reset()
	return c
}

// reset re-threads every slot of this chunk into one circular free
// list, local to the chunk until the pool splices it in.
func (c *chunk[T]) reset() {
	n := len(c.slots)
	for i := 0; i < n; i++ {
		c.slots[i].vacant = true
		c.slots[i].nextFree = &c.slots[(i+1)%n]
	}
}

// freeTail is the last slot of the chunk-local circular free list.
// Its successor is the chunk's first slot.
func (c *chunk[T]) freeTail() *Slot[T] {
	return &c.slots[len(c.slots)-1]
}

func (c *chunk[T]) capacity() int {
	return len(c.slots)
}

// owns reports whether s points into this chunk's slot array, by an
// address range compare against the first and last slot. Serves
// reclamation strategies that map a slot back to its chunk, not the
// allocate/deallocate fast path.
func (c *chunk[T]) owns(s *Slot[T]) bool {
	if s == nil || len(c.slots) == 0 {
		return false
	}
	first := uintptr(unsafe.Pointer(&c.slots[0]))
	last := uintptr(unsafe.Pointer(&c.slots[len(c.slots)-1]))
	p := uintptr(unsafe.Pointer(s))
	return p >= first && p <= last
}
