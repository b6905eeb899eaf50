package list

import (
	"github.com/benz9527/xslab/lib/slab"
)

// Node is the in-slot representation of one list element. It is
// exported only so callers can name the pool type when sharing one
// pool between lists, e.g. slab.NewPool[list.Node[int]]().
type Node[V comparable] struct {
	next *slab.Slot[Node[V]] // circular: the tail links back to the head
	val  V
}

// Pix is a positional reference into a SlabList, captured at a point
// in time and usable for iteration. Besides the slot address it
// snapshots the slot's creation stamp and the capturing list's
// identity; Read and Advance replay both against the slot's current
// metadata, which is what turns silent stale reads into ErrDanglingPix
// after the slot has been vacated or recycled.
//
// A pix into a slot whose payload was overwritten in place without
// going through the pool, or into storage dropped wholesale by a
// private pool's bulk clear, remains a documented unsafe-use
// precondition: neither path rewrites the slot's metadata.
type Pix[V comparable] struct {
	slot  *slab.Slot[Node[V]]
	stamp uint64
	owner uint64
}

// Nil reports whether the pix references nothing, e.g. after advancing
// past the tail or failing a find.
func (p Pix[V]) Nil() bool {
	return p.slot == nil
}
