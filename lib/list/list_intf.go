package list

import (
	"github.com/benz9527/xslab/lib/slab"
)

// Note that the slab list is not thread safe. A list and the pool
// behind it belong to one owner goroutine; sharing a pool between
// several lists is an ownership concept, not a concurrency one.

// SlabList is a singly linked sequence whose nodes live in slots drawn
// from a slab pool. The node ring is circular and anchored at the last
// node, so both head and tail stay reachable in O(1).
type SlabList[V comparable] interface {
	Len() int64
	Empty() bool
	// PushFront allocates a slot from the pool, constructs a node
	// holding v in place and links it as the new head.
	PushFront(v V) Pix[V]
	// RemoveFront detaches the head node, returns its slot to the pool
	// and yields the removed value. Calling it on an empty list is a
	// fatal precondition violation and panics.
	RemoveFront() V
	// Clear empties the list. With a private pool it delegates to the
	// pool's O(1) bulk release; with a shared pool it removes nodes one
	// at a time so other lists' live nodes survive.
	Clear()
	// Find scans from the head for the first node whose value equals v
	// and returns a pix to it, or the nil pix.
	Find(v V) Pix[V]
	// Head captures a pix referencing the current head node, or the
	// nil pix on an empty list.
	Head() Pix[V]
	// Read yields the payload the pix references. It fails with
	// ErrDanglingPix when the referenced slot was vacated or recycled
	// since capture, and with ErrPixOwnerMismatch when the pix was
	// captured from another list.
	Read(p Pix[V]) (V, error)
	// Advance moves the pix to the next node, or to the nil pix when
	// it sat on the tail. Validation mirrors Read.
	Advance(p Pix[V]) (Pix[V], error)
	// ForEach walks the live nodes from head to tail.
	ForEach(fn func(idx int64, v V) error) error
	// Pool exposes the backing pool so another list can attach to it.
	Pool() *slab.Pool[Node[V]]
	// Release drops this list's reference on the pool. A shared pool
	// is drained of this list's nodes first, a private one is bulk
	// released by the final reference drop.
	Release()
}
