package slab

// Slot is one fixed-size storage unit inside a chunk. While vacant the
// slot threads the pool's free list through the same struct that
// otherwise carries a live payload, so recycling a slot rewrites the
// storage a stale reference may still point at. The stamp and owner
// fields exist to make exactly that reuse detectable: the pool stamps a
// slot on every allocation and records the identity the caller binds it
// to, and a positional reference captured earlier can compare its own
// snapshot against them.
type Slot[T any] struct {
	nextFree *Slot[T] // free-list link, meaningful only while vacant
	stamp    uint64   // creation stamp of the current occupant
	owner    uint64   // identity bound at allocation time
	vacant   bool
	val      T
}

// Value exposes the payload storage for in-place construction.
func (s *Slot[T]) Value() *T {
	return &s.val
}

func (s *Slot[T]) Stamp() uint64 {
	return s.stamp
}

func (s *Slot[T]) Owner() uint64 {
	return s.owner
}

// Vacant reports whether the slot currently sits on the free list.
func (s *Slot[T]) Vacant() bool {
	return s.vacant
}
