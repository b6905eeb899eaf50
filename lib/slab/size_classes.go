package slab

import (
	"unsafe"
)

// The underlying allocator rounds every request up to a size class, so
// a chunk asking for exactly n slots would quietly waste the padding
// between its natural size and the class ceiling. Instead the pool
// computes once, from the requested slot count and a fixed
// per-allocation overhead constant, the largest slot count whose
// backing array still fits the smallest power-of-two class the request
// would land in anyway.

// chunkAllocOverhead approximates the bookkeeping bytes the runtime
// spends ahead of a chunk's slot array.
const chunkAllocOverhead = 16

// minChunkClass keeps tiny slot types from degenerating into classes
// below the runtime's smallest interesting size.
const minChunkClass = 64

// roundSlotsPerChunk returns the adjusted per-growth slot count for a
// requested count and slot byte size. The result is always >= requested
// and deterministic for the same inputs.
func roundSlotsPerChunk(requested int, slotSize uintptr) int {
	if requested <= 0 || slotSize == 0 {
		panic("[slab] chunk sizing with non-positive request")
	}
	need := uintptr(requested)*slotSize + chunkAllocOverhead
	class := uintptr(minChunkClass)
	for class < need {
		class <<= 1
	}
	// class >= requested*slotSize+overhead, so this never rounds below
	// the requested count.
	return int((class - chunkAllocOverhead) / slotSize)
}

func slotSizeOf[T any]() uintptr {
	return unsafe.Sizeof(*new(Slot[T]))
}
